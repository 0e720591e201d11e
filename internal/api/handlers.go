package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chapterly/mentorhub/internal/apperr"
	"github.com/chapterly/mentorhub/internal/model"
	"github.com/chapterly/mentorhub/internal/service"
)

type handlers struct {
	svcs Services
}

func (h *handlers) register(e *echo.Echo) {
	e.GET("/terms", h.listTerms)
	e.GET("/terms/years", h.listTermYears)
	e.GET("/terms/current", h.currentTerm)

	e.GET("/cancel-reasons", h.listCancelReasons)

	e.POST("/assignments", h.createAssignment)
	e.DELETE("/assignments/:mentorID/:studentID", h.deleteAssignment)

	e.GET("/chapters/:chapterID/mentor-options", h.mentorOptions)
	e.GET("/chapters/:chapterID/student-options", h.studentOptions)
	e.GET("/chapters/:chapterID/roster", h.roster)

	e.POST("/sessions", h.createSession)
	e.GET("/sessions/:id", h.getSession)
	e.PUT("/sessions/:id/mentor", h.reassignMentor)

	e.POST("/bookings/:id/cancel", h.cancelBooking)
	e.POST("/bookings/:id/restore", h.restoreBooking)
	e.DELETE("/bookings/:id", h.removeBooking)

	e.PUT("/bookings/:id/report", h.saveDraft)
	e.POST("/bookings/:id/complete", h.markCompleted)
	e.DELETE("/bookings/:id/complete", h.unmarkCompleted)
	e.POST("/bookings/:id/signoff", h.signOff)
	e.DELETE("/bookings/:id/signoff", h.removeSignOff)
	e.POST("/bookings/:id/behalf", h.writeOnBehalf)
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func queryID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.QueryParam(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func (h *handlers) listTerms(c echo.Context) error {
	terms, err := h.svcs.Terms.Terms(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, terms)
}

func (h *handlers) listTermYears(c echo.Context) error {
	years, err := h.svcs.Terms.Years(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, years)
}

func (h *handlers) currentTerm(c echo.Context) error {
	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		date = parsed
	}

	term, err := h.svcs.Terms.CurrentTerm(c.Request().Context(), date)
	if err != nil {
		return err
	}

	resp := echo.Map{"term": term}
	if closest := h.svcs.Terms.ClosestSessionDate(term); closest != nil {
		resp["closest_session_date"] = closest.Format("2006-01-02")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) listCancelReasons(c echo.Context) error {
	reasons, err := h.svcs.Reasons.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reasons)
}

func (h *handlers) createAssignment(c echo.Context) error {
	var req createAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	a, err := h.svcs.Assignments.Assign(c.Request().Context(), req.MentorID, req.StudentID, req.AssignedBy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *handlers) deleteAssignment(c echo.Context) error {
	mentorID, err := pathID(c, "mentorID")
	if err != nil {
		return err
	}
	studentID, err := pathID(c, "studentID")
	if err != nil {
		return err
	}

	if err := h.svcs.Assignments.Unassign(c.Request().Context(), mentorID, studentID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) mentorOptions(c echo.Context) error {
	chapterID, err := pathID(c, "chapterID")
	if err != nil {
		return err
	}
	studentID, err := queryID(c, "student_id")
	if err != nil {
		return err
	}

	options, err := h.svcs.Assignments.AvailableMentorsForStudent(c.Request().Context(), chapterID, studentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, options)
}

func (h *handlers) studentOptions(c echo.Context) error {
	chapterID, err := pathID(c, "chapterID")
	if err != nil {
		return err
	}
	mentorID, err := queryID(c, "mentor_id")
	if err != nil {
		return err
	}

	options, err := h.svcs.Assignments.AvailableStudentsForMentor(c.Request().Context(), chapterID, mentorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, options)
}

func (h *handlers) roster(c echo.Context) error {
	chapterID, err := pathID(c, "chapterID")
	if err != nil {
		return err
	}
	termID, err := queryID(c, "term_id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	terms, err := h.svcs.Terms.Terms(ctx)
	if err != nil {
		return err
	}

	var term *model.Term
	for i := range terms {
		if terms[i].ID == termID {
			term = &terms[i]
			break
		}
	}
	if term == nil {
		return apperr.NotFoundf("term %s", termID)
	}

	rows, err := h.svcs.Roster.ProjectRoster(ctx, chapterID, *term)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *handlers) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	attendedOn, err := time.Parse("2006-01-02", req.AttendedOn)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attended_on")
	}

	detail, err := h.svcs.Sessions.Create(c.Request().Context(), req.ChapterID, req.MentorID, req.StudentID, attendedOn)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, detail)
}

func (h *handlers) getSession(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.svcs.Sessions.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *handlers) reassignMentor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req reassignMentorRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.svcs.Sessions.ReassignMentor(c.Request().Context(), id, req.MentorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *handlers) cancelBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req cancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.svcs.Sessions.Cancel(c.Request().Context(), id, model.CancelParty(req.CancelledBy), req.ReasonID, req.ExtendedReason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) restoreBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	b, err := h.svcs.Sessions.Restore(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) removeBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	sessionDeleted, err := h.svcs.Sessions.RemoveStudentBooking(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"session_deleted": sessionDeleted})
}

func (h *handlers) saveDraft(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req saveDraftRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	b, err := h.svcs.Reports.SaveDraft(c.Request().Context(), id, req.Report)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) markCompleted(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req markCompletedRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	b, err := h.svcs.Reports.MarkCompleted(c.Request().Context(), id, req.Report)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) unmarkCompleted(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	b, err := h.svcs.Reports.UnmarkCompleted(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) signOff(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req signOffRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.svcs.Reports.SignOff(c.Request().Context(), id, req.Feedback, req.SignedOffBy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) removeSignOff(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	b, err := h.svcs.Reports.RemoveSignOff(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) writeOnBehalf(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req writeOnBehalfRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.svcs.Reports.WriteOnBehalf(c.Request().Context(), id, req.Report, req.Feedback, req.ActingAdminID, service.BehalfAction(req.Action))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

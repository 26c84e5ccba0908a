package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/timer"
	"github.com/existflow/tasktrack/internal/validate"
	"github.com/existflow/tasktrack/internal/view"
	"github.com/labstack/echo/v4"
)

// ValidationResponse is returned with 422 when input fails validation
type ValidationResponse struct {
	Errors validate.Errors `json:"errors"`
}

// TimerRequest sets a task's elapsed seconds
type TimerRequest struct {
	Elapsed int64 `json:"elapsed"`
}

// TimerResponse reports a server-side timer
type TimerResponse struct {
	ID      string      `json:"id"`
	State   timer.State `json:"state"`
	Elapsed int64       `json:"elapsed"`
}

// CalendarDay is one cell of the month grid
type CalendarDay struct {
	Date    model.Date   `json:"date"`
	InMonth bool         `json:"inMonth"`
	Tasks   []model.Task `json:"tasks"`
}

// CalendarResponse is the month view
type CalendarResponse struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// handleListTasks returns tasks filtered by ?status, searched by ?q and ordered by ?sort
func (s *Server) handleListTasks(c echo.Context) error {
	filter, err := view.ParseStatusFilter(c.QueryParam("status"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	key, err := view.ParseSortKey(c.QueryParam("sort"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	tasks := view.Search(s.store.Tasks(), c.QueryParam("q"))
	return c.JSON(http.StatusOK, view.FilterSort(tasks, filter, key, s.lang))
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var in model.TaskInput
	if err := c.Bind(&in); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Task(in, s.clock.Now()); !errs.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Errors: errs})
	}
	in.RepetitionDays = model.NormalizeWeekdays(in.RepetitionDays)

	return c.JSON(http.StatusCreated, s.store.Create(in))
}

func (s *Server) handleGetTask(c echo.Context) error {
	task, ok := s.store.Task(c.Param("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	id := c.Param("id")
	current, ok := s.store.Task(id)
	if !ok {
		return notFound(c)
	}

	var patch model.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Patch(current, patch, s.clock.Now()); !errs.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Errors: errs})
	}
	if patch.RepetitionDays != nil {
		days := model.NormalizeWeekdays(*patch.RepetitionDays)
		patch.RepetitionDays = &days
	}

	s.store.Dispatch(reducer.Update{ID: id, Patch: patch})
	return s.handleGetTask(c)
}

// handleDeleteTask is idempotent: deleting a missing task still returns 204
func (s *Server) handleDeleteTask(c echo.Context) error {
	s.store.Dispatch(reducer.Delete{ID: c.Param("id")})
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleClearTasks(c echo.Context) error {
	s.store.Dispatch(reducer.ClearAll{})
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleToggleTask(c echo.Context) error {
	id := c.Param("id")
	if _, ok := s.store.Task(id); !ok {
		return notFound(c)
	}
	s.store.Dispatch(reducer.ToggleComplete{ID: id})
	return s.handleGetTask(c)
}

func (s *Server) handleSetTimer(c echo.Context) error {
	id := c.Param("id")
	if _, ok := s.store.Task(id); !ok {
		return notFound(c)
	}

	var req TimerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Elapsed < 0 {
		return errorJSON(c, http.StatusBadRequest, "elapsed must not be negative")
	}

	s.store.Dispatch(reducer.UpdateTimer{ID: id, Elapsed: req.Elapsed})
	return s.handleGetTask(c)
}

// handleResetTimer zeroes the stored value and drops any running timer
func (s *Server) handleResetTimer(c echo.Context) error {
	id := c.Param("id")
	if _, ok := s.store.Task(id); !ok {
		return notFound(c)
	}
	s.timers.Remove(id)
	s.store.Dispatch(reducer.ResetTimer{ID: id})
	return s.handleGetTask(c)
}

// handleTimerAction drives a server-side timer: start, pause or reset.
// Reset without a live timer zeroes the stored value.
func (s *Server) handleTimerAction(c echo.Context) error {
	id := c.Param("id")
	task, ok := s.store.Task(id)
	if !ok {
		return notFound(c)
	}

	switch action := c.Param("action"); action {
	case "start":
		s.timers.Get(id, task.ElapsedTime).Start()
	case "pause":
		s.timers.Pause(id)
	case "reset":
		if _, live := s.timers.Lookup(id); live {
			s.timers.Reset(id)
		} else {
			s.store.Dispatch(reducer.ResetTimer{ID: id})
			task, _ = s.store.Task(id)
		}
	default:
		return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("unknown timer action %q", action))
	}

	resp := TimerResponse{ID: id, State: s.timers.State(id)}
	if t, ok := s.timers.Lookup(id); ok {
		resp.Elapsed = t.Elapsed()
	} else {
		resp.Elapsed = task.ElapsedTime
	}
	return c.JSON(http.StatusOK, resp)
}

// handleCalendar returns the month grid for ?month=YYYY-MM, default this month
func (s *Server) handleCalendar(c echo.Context) error {
	now := s.clock.Now()
	year, month := now.Year(), now.Month()
	if raw := c.QueryParam("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "month must be YYYY-MM")
		}
		year, month = t.Year(), t.Month()
	}

	days := view.MonthGrid(year, month)
	buckets := view.Buckets(s.store.Tasks(), days)

	resp := CalendarResponse{
		Month: fmt.Sprintf("%04d-%02d", year, month),
		Days:  make([]CalendarDay, len(days)),
	}
	for i, d := range days {
		tasks := buckets[d]
		if tasks == nil {
			tasks = []model.Task{}
		}
		t, _ := d.Time(time.UTC)
		resp.Days[i] = CalendarDay{Date: d, InMonth: t.Month() == month, Tasks: tasks}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCounts(c echo.Context) error {
	return c.JSON(http.StatusOK, view.Count(s.store.Tasks()))
}

func (s *Server) handleRecompute(c echo.Context) error {
	s.store.Dispatch(reducer.RecomputeStatuses{})
	return c.JSON(http.StatusOK, view.Count(s.store.Tasks()))
}

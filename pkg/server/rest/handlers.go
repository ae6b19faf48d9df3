package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/server/rest/service"
	"warehouse/gridnav/pkg/types"
)

type NavigationService interface {
	FindRoute(ctx context.Context, source, target datastructure.Coordinate, ignoreRobots bool) (service.RouteResult, error)
	BulkRoutes(ctx context.Context, pairs []service.BulkRoutePair) []service.BulkRouteResult
	NearestFreeCell(ctx context.Context, c datastructure.Coordinate) (datastructure.Coordinate, error)
	PlaceRobot(ctx context.Context, id string, c datastructure.Coordinate) error
	MoveRobot(ctx context.Context, id string, c datastructure.Coordinate) error
	RemoveRobot(ctx context.Context, id string) error
	FloorInfo(ctx context.Context) datastructure.FloorLayout
	SaveLayout(ctx context.Context, name string) error
	LoadLayout(ctx context.Context, name string) error
}

type NavigationHandler struct {
	svc          NavigationService
	promeMetrics *metrics
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *metrics) {
	handler := &NavigationHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/route", handler.findRoute)
			r.Post("/bulk", handler.bulkRoutes)
			r.Post("/nearestFreeCell", handler.nearestFreeCell)
		})
		r.Route("/api/floor", func(r chi.Router) {
			r.Get("/", handler.floorInfo)
			r.Post("/layouts/{name}/save", handler.saveLayout)
			r.Post("/layouts/{name}/load", handler.loadLayout)
		})
		r.Route("/api/robots", func(r chi.Router) {
			r.Post("/", handler.placeRobot)
			r.Patch("/{id}", handler.moveRobot)
			r.Delete("/{id}", handler.removeRobot)
		})
	})
}

// Cell model info
//
//	@Description	one cell coordinate on the warehouse floor
type Cell struct {
	Column int `json:"column" validate:"gte=0"`
	Row    int `json:"row" validate:"gte=0"`
}

func (c Cell) toCoordinate() datastructure.Coordinate {
	return datastructure.NewCoordinate(c.Column, c.Row)
}

// RouteRequest model info
//
//	@Description	request body for a shortest route query between two cells
type RouteRequest struct {
	Source       Cell `json:"source"`
	Target       Cell `json:"target"`
	IgnoreRobots bool `json:"ignore_robots"`
}

func (s *RouteRequest) Bind(r *http.Request) error {
	return nil
}

// RouteResponse model info
//
//	@Description	response body for a shortest route query
type RouteResponse struct {
	Found      bool     `json:"found"`
	Steps      []Cell   `json:"steps"`
	Path       string   `json:"path,omitempty"`
	StepCount  int      `json:"step_count"`
	Directions []string `json:"directions,omitempty"`
}

func NewRouteResponse(res service.RouteResult) *RouteResponse {
	steps := make([]Cell, 0, len(res.Steps))
	for _, s := range res.Steps {
		steps = append(steps, Cell{Column: s.Column, Row: s.Row})
	}
	return &RouteResponse{
		Found:      res.Found,
		Steps:      steps,
		Path:       res.Path,
		StepCount:  res.StepCount,
		Directions: res.Directions,
	}
}

// findRoute
//
//	@Summary		shortest route between two floor cells, walls and robots avoided
//	@Description	shortest 4-connected route between two floor cells. Set ignore_robots to route through occupied cells
//	@Tags			navigations
//	@Param			body	body	RouteRequest	true	"request body route query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/route [post]
//	@Success		200	{object}	RouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) findRoute(w http.ResponseWriter, r *http.Request) {
	data := &RouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	res, err := h.svc.FindRoute(r.Context(), data.Source.toCoordinate(), data.Target.toCoordinate(), data.IgnoreRobots)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.routeQueryCount.With(prometheusFoundLabel(res.Found)).Inc()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewRouteResponse(res))
}

// BulkRoutePairReq model info
//
//	@Description	one source/target pair of a bulk route query
type BulkRoutePairReq struct {
	Source Cell `json:"source"`
	Target Cell `json:"target"`
}

// BulkRoutesRequest model info
//
//	@Description	request body for a bulk (many to many) route query
type BulkRoutesRequest struct {
	Pairs []BulkRoutePairReq `json:"pairs" validate:"required,dive"`
}

func (s *BulkRoutesRequest) Bind(r *http.Request) error {
	if len(s.Pairs) == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// BulkRouteItem model info
//
//	@Description	one pair outcome inside the bulk route response
type BulkRouteItem struct {
	Source Cell          `json:"source"`
	Target Cell          `json:"target"`
	Route  RouteResponse `json:"route"`
}

// BulkRoutesResponse model info
//
//	@Description	response body for a bulk route query
type BulkRoutesResponse struct {
	Results []BulkRouteItem `json:"results"`
}

// bulkRoutes
//
//	@Summary		bulk shortest route query over many source/target pairs
//	@Description	answers every pair concurrently, each with its own search engine instance
//	@Tags			navigations
//	@Param			body	body	BulkRoutesRequest	true	"request body bulk route query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/bulk [post]
//	@Success		200	{object}	BulkRoutesResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) bulkRoutes(w http.ResponseWriter, r *http.Request) {
	data := &BulkRoutesRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	pairs := make([]service.BulkRoutePair, 0, len(data.Pairs))
	for _, p := range data.Pairs {
		pairs = append(pairs, service.BulkRoutePair{
			Source: p.Source.toCoordinate(),
			Target: p.Target.toCoordinate(),
		})
	}

	results := h.svc.BulkRoutes(r.Context(), pairs)

	resp := &BulkRoutesResponse{Results: []BulkRouteItem{}}
	for _, res := range results {
		h.promeMetrics.routeQueryCount.With(prometheusFoundLabel(res.Route.Found)).Inc()
		resp.Results = append(resp.Results, BulkRouteItem{
			Source: Cell{Column: res.Pair.Source.Column, Row: res.Pair.Source.Row},
			Target: Cell{Column: res.Pair.Target.Column, Row: res.Pair.Target.Row},
			Route:  *NewRouteResponse(res.Route),
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// NearestFreeCellRequest model info
//
//	@Description	request body for the nearest free cell query
type NearestFreeCellRequest struct {
	Cell Cell `json:"cell"`
}

func (s *NearestFreeCellRequest) Bind(r *http.Request) error {
	return nil
}

// NearestFreeCellResponse model info
//
//	@Description	response body for the nearest free cell query
type NearestFreeCellResponse struct {
	Cell Cell `json:"cell"`
}

// nearestFreeCell
//
//	@Summary		snap a cell to the nearest navigable unoccupied cell
//	@Description	snap a requested cell (possibly a wall or occupied) to the closest usable cell on the floor
//	@Tags			navigations
//	@Param			body	body	NearestFreeCellRequest	true	"request body nearest free cell"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/nearestFreeCell [post]
//	@Success		200	{object}	NearestFreeCellResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) nearestFreeCell(w http.ResponseWriter, r *http.Request) {
	data := &NearestFreeCellRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	cell, err := h.svc.NearestFreeCell(r.Context(), data.Cell.toCoordinate())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &NearestFreeCellResponse{Cell: Cell{Column: cell.Column, Row: cell.Row}})
}

// FloorRobot model info
//
//	@Description	one robot position inside the floor snapshot
type FloorRobot struct {
	RobotID string `json:"robot_id"`
	Cell    Cell   `json:"cell"`
}

// FloorResponse model info
//
//	@Description	snapshot of the active floor: extents, walls, and robots
type FloorResponse struct {
	Columns int          `json:"columns"`
	Rows    int          `json:"rows"`
	Walls   []Cell       `json:"walls"`
	Robots  []FloorRobot `json:"robots"`
}

// floorInfo
//
//	@Summary		active floor snapshot
//	@Description	extents, wall cells, and robot positions of the active floor
//	@Tags			floor
//	@Produce		application/json
//	@Router			/floor [get]
//	@Success		200	{object}	FloorResponse
func (h *NavigationHandler) floorInfo(w http.ResponseWriter, r *http.Request) {
	layout := h.svc.FloorInfo(r.Context())

	resp := &FloorResponse{
		Columns: layout.Columns,
		Rows:    layout.Rows,
		Walls:   []Cell{},
		Robots:  []FloorRobot{},
	}
	for _, wall := range layout.Walls {
		resp.Walls = append(resp.Walls, Cell{Column: wall.Column, Row: wall.Row})
	}
	for _, robot := range layout.Robots {
		resp.Robots = append(resp.Robots, FloorRobot{
			RobotID: robot.RobotID,
			Cell:    Cell{Column: robot.Coord.Column, Row: robot.Coord.Row},
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// saveLayout
//
//	@Summary		persist the active floor layout under a name
//	@Tags			floor
//	@Param			name	path	string	true	"layout name"
//	@Produce		application/json
//	@Router			/floor/layouts/{name}/save [post]
//	@Success		200	{object}	StatusResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) saveLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		render.Render(w, r, ErrInvalidRequest(errors.New("layout name required")))
		return
	}

	if err := h.svc.SaveLayout(r.Context(), name); err != nil {
		render.Render(w, r, ErrInternalServerErrorRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &StatusResponse{Status: fmt.Sprintf("layout %s saved", name)})
}

// loadLayout
//
//	@Summary		replace the active floor with a stored layout
//	@Tags			floor
//	@Param			name	path	string	true	"layout name"
//	@Produce		application/json
//	@Router			/floor/layouts/{name}/load [post]
//	@Success		200	{object}	StatusResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) loadLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		render.Render(w, r, ErrInvalidRequest(errors.New("layout name required")))
		return
	}

	if err := h.svc.LoadLayout(r.Context(), name); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &StatusResponse{Status: fmt.Sprintf("layout %s loaded", name)})
}

// PlaceRobotRequest model info
//
//	@Description	request body for placing a robot on the floor
type PlaceRobotRequest struct {
	RobotID string `json:"robot_id" validate:"required"`
	Cell    Cell   `json:"cell"`
}

func (s *PlaceRobotRequest) Bind(r *http.Request) error {
	if s.RobotID == "" {
		return errors.New("invalid request")
	}
	return nil
}

// StatusResponse model info
//
//	@Description	generic status message
type StatusResponse struct {
	Status string `json:"status"`
}

// placeRobot
//
//	@Summary		place a robot on a free navigable cell
//	@Tags			robots
//	@Param			body	body	PlaceRobotRequest	true	"request body place robot"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/robots [post]
//	@Success		200	{object}	StatusResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		409	{object}	ErrResponse
func (h *NavigationHandler) placeRobot(w http.ResponseWriter, r *http.Request) {
	data := &PlaceRobotRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	if err := h.svc.PlaceRobot(r.Context(), data.RobotID, data.Cell.toCoordinate()); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &StatusResponse{Status: fmt.Sprintf("robot %s placed", data.RobotID)})
}

// MoveRobotRequest model info
//
//	@Description	request body for moving a placed robot
type MoveRobotRequest struct {
	Cell Cell `json:"cell"`
}

func (s *MoveRobotRequest) Bind(r *http.Request) error {
	return nil
}

// moveRobot
//
//	@Summary		move a placed robot to a free navigable cell
//	@Tags			robots
//	@Param			id		path	string				true	"robot id"
//	@Param			body	body	MoveRobotRequest	true	"request body move robot"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/robots/{id} [patch]
//	@Success		200	{object}	StatusResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) moveRobot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data := &MoveRobotRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.svc.MoveRobot(r.Context(), id, data.Cell.toCoordinate()); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &StatusResponse{Status: fmt.Sprintf("robot %s moved", id)})
}

// removeRobot
//
//	@Summary		remove a robot from the floor
//	@Tags			robots
//	@Param			id	path	string	true	"robot id"
//	@Produce		application/json
//	@Router			/robots/{id} [delete]
//	@Success		200	{object}	StatusResponse
//	@Failure		404	{object}	ErrResponse
func (h *NavigationHandler) removeRobot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.RemoveRobot(r.Context(), id); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &StatusResponse{Status: fmt.Sprintf("robot %s removed", id)})
}

func prometheusFoundLabel(found bool) map[string]string {
	return map[string]string{"found": strconv.FormatBool(found)}
}

// ErrResponse model info
//
//	@Description	model for error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     types.MessageInternalServerError,
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *types.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	} else {
		switch ierr.Code() {
		case types.ErrInternalServerError:
			return http.StatusInternalServerError
		case types.ErrNotFound:
			return http.StatusNotFound
		case types.ErrConflict:
			return http.StatusConflict
		case types.ErrBadParamInput:
			return http.StatusBadRequest
		default:
			return http.StatusInternalServerError
		}
	}

}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}

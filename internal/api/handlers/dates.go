package handlers

import (
	"context"

	"github.com/julienv/daygate/internal/datectx"
	"github.com/julienv/daygate/internal/gateway"
	"github.com/julienv/daygate/pkg/logger"
)

// EndpointInfo is one row of the directory attached to the free overview.
type EndpointInfo struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Free        bool   `json:"free"`
}

// DateHandler exposes the calendar operations backed by the aggregator.
type DateHandler struct {
	agg       *datectx.Aggregator
	logger    *logger.Logger
	directory []EndpointInfo
}

func NewDateHandler(agg *datectx.Aggregator, log *logger.Logger) *DateHandler {
	return &DateHandler{agg: agg, logger: log}
}

// SetDirectory installs the endpoint directory served with the overview.
// Called once after all operations are registered.
func (h *DateHandler) SetDirectory(dir []EndpointInfo) {
	h.directory = dir
}

type overviewResponse struct {
	datectx.DailyOverview
	Endpoints []EndpointInfo `json:"endpoints"`
}

// Today serves the free daily overview plus the operation directory.
func (h *DateHandler) Today(ctx context.Context, _ gateway.Input) (interface{}, error) {
	ov := h.agg.Today(ctx)
	return overviewResponse{DailyOverview: *ov, Endpoints: h.directory}, nil
}

func (h *DateHandler) Holidays(ctx context.Context, in gateway.Input) (interface{}, error) {
	return h.agg.Holidays(ctx, in.String("country"), in.Int("year"))
}

func (h *DateHandler) Events(ctx context.Context, in gateway.Input) (interface{}, error) {
	return h.agg.Events(ctx, in.Int("month"), in.Int("day"), in.Int("limit"))
}

func (h *DateHandler) Births(ctx context.Context, in gateway.Input) (interface{}, error) {
	return h.agg.Births(ctx, in.Int("month"), in.Int("day"), in.Int("limit"))
}

func (h *DateHandler) DateContext(ctx context.Context, in gateway.Input) (interface{}, error) {
	return h.agg.FullContext(ctx, in.String("date"), in.String("country"))
}

func (h *DateHandler) CompareDates(ctx context.Context, in gateway.Input) (interface{}, error) {
	return h.agg.Compare(ctx, in.StringList("dates"), in.String("country"))
}

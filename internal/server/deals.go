package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/httpx/reply"
	"smartdeals/pkg/httpx/req"
	"smartdeals/pkg/rest"
)

const (
	dealsLimit = 300
	postsLimit = 300
	runsLimit  = 100
	maxScore   = 100
)

func (s Server) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	filter := entity.DealFilter{
		Query:  query.Get("q"),
		Source: query.Get("source"),
		Limit:  dealsLimit,
	}

	if raw := query.Get("status"); raw != "" {
		status, err := entity.ParseDealStatus(raw)
		if err != nil {
			return failure.NewInvalidArgumentError(
				err.Error(),
				failure.WithCode(errcodes.InvalidDealStatus),
				failure.WithDescription(fmt.Sprintf("unknown status %q", raw)),
			)
		}

		filter.Status = status
	}

	minScore, err := req.QueryInt64(r, "min_score")
	if err != nil {
		return fmt.Errorf("req.QueryInt64: %w", err)
	}

	if minScore != nil {
		if *minScore < 0 || *minScore > maxScore {
			return failure.NewInvalidArgumentError(
				fmt.Sprintf("min_score %d out of range", *minScore),
				failure.WithCode(errcodes.ValidationError),
				failure.WithDescription("min_score must be between 0 and 100"),
			)
		}

		filter.MinScore = lo.ToPtr(int(*minScore))
	}

	deals, err := s.deals.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("deals.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(deals, func(d entity.Deal, _ int) rest.Deal {
		return newRESTDeal(d)
	}))

	return nil
}

func (s Server) postV1DealApprove(w http.ResponseWriter, r *http.Request) error {
	return s.publishDeal(w, r, s.deals.Approve)
}

func (s Server) postV1DealPost(w http.ResponseWriter, r *http.Request) error {
	return s.publishDeal(w, r, s.deals.ForcePost)
}

func (s Server) publishDeal(
	w http.ResponseWriter,
	r *http.Request,
	action func(context.Context, int64, entity.Settings) (*entity.Deal, []entity.Post, error),
) error {
	ctx := r.Context()

	id, err := dealID(r)
	if err != nil {
		return err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("settings.Get: %w", err)
	}

	deal, posts, err := action(ctx, id, settings)
	if err != nil {
		return fmt.Errorf("deal %d: %w", id, err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.PublishResult{
		Deal:  newRESTDeal(*deal),
		Posts: lo.Map(posts, func(p entity.Post, _ int) rest.Post { return newRESTPost(p) }),
	})

	return nil
}

func (s Server) postV1DealReject(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := dealID(r)
	if err != nil {
		return err
	}

	deal, err := s.deals.Reject(ctx, id)
	if err != nil {
		return fmt.Errorf("deals.Reject: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(*deal))

	return nil
}

func (s Server) getV1Posts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	posts, err := s.posts.List(ctx, postsLimit)
	if err != nil {
		return fmt.Errorf("posts.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(posts, func(p entity.Post, _ int) rest.Post {
		return newRESTPost(p)
	}))

	return nil
}

func (s Server) getV1Runs(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	runs, err := s.runs.List(ctx, runsLimit)
	if err != nil {
		return fmt.Errorf("runs.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(runs, func(run entity.ScanRun, _ int) rest.ScanRun {
		return newRESTScanRun(run)
	}))

	return nil
}

func dealID(r *http.Request) (int64, error) {
	id, err := req.PathInt64(chi.URLParam(r, "id"), "deal id", errcodes.InvalidDealID)
	if err != nil {
		return 0, fmt.Errorf("req.PathInt64: %w", err)
	}

	return id, nil
}

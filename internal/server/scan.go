package server

import (
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"smartdeals/internal/worker"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/httpx/reply"
	"smartdeals/pkg/httpx/req"
	"smartdeals/pkg/rest"
)

func (s Server) postV1ScanRun(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	run, err := s.scanner.Tick(ctx)
	if err != nil {
		return fmt.Errorf("scanner.Tick: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScanRun(run))

	return nil
}

func (s Server) getV1Sources(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTSources(s.scanner.Sources()))

	return nil
}

func (s Server) putV1Source(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	var request rest.SourceToggleRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if !s.scanner.SetSourceEnabled(name, *request.Enabled) {
		return failure.NewNotFoundError(
			fmt.Sprintf("source %q not registered", name),
			failure.WithCode(errcodes.UnknownSource),
			failure.WithDescription(fmt.Sprintf("unknown source %q", name)),
		)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSources(s.scanner.Sources()))

	return nil
}

func (s Server) postV1SourcesTest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	checks, err := s.scanner.CheckSources(ctx)
	if err != nil {
		return fmt.Errorf("scanner.CheckSources: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SourceCheckResponse{
		Sources: lo.Map(checks, func(c worker.SourceCheck, _ int) rest.SourceCheck {
			return rest.SourceCheck{Name: c.Name, Count: c.Count, Error: c.Error}
		}),
	})

	return nil
}

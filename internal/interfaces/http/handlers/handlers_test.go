package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ifat-github/casting-agency/internal/application"
	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/ifat-github/casting-agency/internal/infrastructure/jwks"
	"github.com/ifat-github/casting-agency/internal/infrastructure/jwt"
	"github.com/ifat-github/casting-agency/internal/infrastructure/jwt/jwttest"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/middleware/auth"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockActorService struct {
	mock.Mock
}

func (m *mockActorService) ListActors(ctx context.Context) ([]*domain.Actor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Actor), args.Error(1)
}

func (m *mockActorService) CreateActor(ctx context.Context, req domain.ActorRequest) ([]*domain.Actor, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Actor), args.Error(1)
}

func (m *mockActorService) UpdateActor(ctx context.Context, id ulid.ULID, req domain.ActorRequest) ([]*domain.Actor, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Actor), args.Error(1)
}

func (m *mockActorService) DeleteActor(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMovieService struct {
	mock.Mock
}

func (m *mockMovieService) ListMovies(ctx context.Context) ([]*domain.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Movie), args.Error(1)
}

func (m *mockMovieService) CreateMovie(ctx context.Context, req domain.MovieRequest) (*domain.Movie, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *mockMovieService) UpdateMovie(ctx context.Context, id ulid.ULID, req domain.MovieRequest) ([]*domain.Movie, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Movie), args.Error(1)
}

func (m *mockMovieService) DeleteMovie(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type testEnv struct {
	router *chi.Mux
	actors *mockActorService
	movies *mockMovieService
	issuer *jwttest.Issuer
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	issuer := jwttest.NewIssuer(t, "handler-key")
	verifier := jwt.NewVerifier(jwks.NewStaticProvider(issuer.SigningKey()), zap.NewNop())
	gate := application.NewAuthorizationService(verifier, jwttest.DefaultIssuer, jwttest.DefaultAudience, zap.NewNop())
	guard := auth.NewGuard(gate, zap.NewNop())

	actors := new(mockActorService)
	movies := new(mockMovieService)
	actorHandler := NewActorHandler(actors, guard, zap.NewNop())
	movieHandler := NewMovieHandler(movies, guard, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/actors", actorHandler.ListActorsHandler)
	r.Post("/actors", actorHandler.CreateActorHandler)
	r.Patch("/actors/{id}", actorHandler.UpdateActorHandler)
	r.Delete("/actors/{id}", actorHandler.DeleteActorHandler)
	r.Get("/movies", movieHandler.ListMoviesHandler)
	r.Post("/movies", movieHandler.CreateMovieHandler)
	r.Patch("/movies/{id}", movieHandler.UpdateMovieHandler)
	r.Delete("/movies/{id}", movieHandler.DeleteMovieHandler)

	return &testEnv{router: r, actors: actors, movies: movies, issuer: issuer}
}

func (e *testEnv) do(t *testing.T, method, path, body string, permissions ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if permissions != nil {
		req.Header.Set("Authorization", "Bearer "+e.issuer.Token(t, "auth0|tester", permissions...))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doWithHeader(t *testing.T, method, path, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", header)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

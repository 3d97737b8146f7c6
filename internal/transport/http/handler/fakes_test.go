package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/errorbus"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeAuthUsecase struct {
	login func(ctx context.Context, input any) (result.Result[string, domain.FieldErrors], error)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, input any) (result.Result[string, domain.FieldErrors], error) {
	return f.login(ctx, input)
}

func (f *fakeAuthUsecase) TokenTTL() time.Duration { return time.Hour }

type fakeUserUsecase struct {
	addUser   func(ctx context.Context, input any) (result.Result[domain.PublicUser, domain.FieldErrors], error)
	getUser   func(ctx context.Context, id string) (domain.PublicUser, error)
	listUsers func(ctx context.Context, input any) (result.Result[usecase.UserPage, domain.FieldErrors], error)
}

func (f *fakeUserUsecase) AddUser(ctx context.Context, input any) (result.Result[domain.PublicUser, domain.FieldErrors], error) {
	return f.addUser(ctx, input)
}

func (f *fakeUserUsecase) GetUser(ctx context.Context, id string) (domain.PublicUser, error) {
	return f.getUser(ctx, id)
}

func (f *fakeUserUsecase) ListUsers(ctx context.Context, input any) (result.Result[usecase.UserPage, domain.FieldErrors], error) {
	return f.listUsers(ctx, input)
}

type fakeClassUsecase struct {
	addClass    func(ctx context.Context, teacher domain.PublicUser, input any) (result.Result[domain.PublicClass, domain.FieldErrors], error)
	getClass    func(ctx context.Context, id string) (domain.PublicClass, error)
	listClasses func(ctx context.Context, input any) (result.Result[usecase.ClassPage, domain.FieldErrors], error)
}

func (f *fakeClassUsecase) AddClass(ctx context.Context, teacher domain.PublicUser, input any) (result.Result[domain.PublicClass, domain.FieldErrors], error) {
	return f.addClass(ctx, teacher, input)
}

func (f *fakeClassUsecase) GetClass(ctx context.Context, id string) (domain.PublicClass, error) {
	return f.getClass(ctx, id)
}

func (f *fakeClassUsecase) ListClasses(ctx context.Context, input any) (result.Result[usecase.ClassPage, domain.FieldErrors], error) {
	return f.listClasses(ctx, input)
}

type fakeReportUsecase struct {
	grade func(input any) (result.Result[domain.Report, domain.FieldErrors], error)
}

func (f *fakeReportUsecase) Grade(input any) (result.Result[domain.Report, domain.FieldErrors], error) {
	return f.grade(input)
}

// recordingBus keeps every published event.
type recordingBus struct {
	mu     sync.Mutex
	events []errorbus.Event
}

func (b *recordingBus) Publish(_ context.Context, e errorbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Events() []errorbus.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]errorbus.Event(nil), b.events...)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

// fieldNames extracts the field of each entry in a 400 body's error list.
func fieldNames(t *testing.T, body map[string]any) []string {
	t.Helper()
	list, ok := body["error"].([]any)
	if !ok {
		t.Fatalf("error is not a list: %v", body["error"])
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		m, _ := item.(map[string]any)
		f, _ := m["field"].(string)
		out = append(out, f)
	}
	return out
}

var testUser = domain.PublicUser{
	ID:           "user-1",
	Name:         "LUIS",
	FirstSurname: "GARCIA",
	Email:        "luis@school.edu",
	Tuition:      "P.123456",
	Role:         domain.RoleTeacher,
}

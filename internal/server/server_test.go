package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/config"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/payment"
	"github.com/sudo-init-do/rentaskill/internal/store"
)

const testJWTSecret = "test-jwt-secret"

type stubOrders struct{}

func (stubOrders) CreateOrder(_ context.Context, req payment.OrderRequest) (payment.Order, error) {
	return payment.Order{ID: "order_test", Amount: req.Amount, Currency: req.Currency}, nil
}

type fixture struct {
	e   *echo.Echo
	mem *store.Memory
}

func newFixture(t *testing.T, requireAuth bool) *fixture {
	t.Helper()
	mem := store.NewMemory()
	e := New(Deps{
		Config: config.Config{
			Env:         config.EnvDev,
			JWTSecret:   testJWTSecret,
			RequireAuth: requireAuth,
			Razorpay:    config.Razorpay{KeySecret: "rzp_secret"},
		},
		Logger: zerolog.Nop(),
		Store:  mem,
		Orders: stubOrders{},
	})
	return &fixture{e: e, mem: mem}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func token(t *testing.T, userID string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func (f *fixture) user(t *testing.T, u models.User) models.User {
	t.Helper()
	created, err := f.mem.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	return created
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture(t, false)
	for _, path := range []string{"/health", "/ready"} {
		if rec := f.do(t, http.MethodGet, path, nil, ""); rec.Code != http.StatusOK {
			t.Errorf("%s = %d", path, rec.Code)
		}
	}
}

func TestCreateTaskStoresOpenWithSeeker(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodPost, "/tasks", map[string]any{
		"title":     "Build a landing page",
		"category":  "Coding",
		"budget":    300,
		"seeker_id": "seeker-1",
		"is_urgent": true,
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	created := decode[models.Task](t, rec)
	if created.Status != models.StatusOpen || created.SeekerID != "seeker-1" || created.Budget != 300 || created.Category != "Coding" {
		t.Fatalf("created = %+v", created)
	}

	rec = f.do(t, http.MethodGet, "/tasks?userId=seeker-1&type=seeker", nil, "")
	tasks := decode[[]models.Task](t, rec)
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("seeker tasks = %+v", tasks)
	}

	rec = f.do(t, http.MethodGet, "/tasks/"+created.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/tasks/missing", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing task = %d", rec.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t, false)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"no title", map[string]any{"budget": 100, "seeker_id": "s"}},
		{"zero budget", map[string]any{"title": "x", "budget": 0, "seeker_id": "s"}},
		{"no seeker", map[string]any{"title": "x", "budget": 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/tasks", tt.body, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			if msg := decode[map[string]string](t, rec)["error"]; msg == "" {
				t.Fatal("missing error message")
			}
		})
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	f := newFixture(t, false)
	task := decode[models.Task](t, f.do(t, http.MethodPost, "/tasks", map[string]any{
		"title": "Essay edit", "budget": 200, "seeker_id": "s1",
	}, ""))
	path := "/tasks/" + task.ID

	if rec := f.do(t, http.MethodPut, path, map[string]any{"status": "assigned"}, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("assign without provider = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"status": "completed"}, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("open -> completed = %d", rec.Code)
	}
	rec := f.do(t, http.MethodPut, path, map[string]any{"status": "assigned", "provider_id": "p1"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("assign = %d %s", rec.Code, rec.Body)
	}
	assigned := decode[models.Task](t, rec)
	if assigned.ProviderID == nil || *assigned.ProviderID != "p1" {
		t.Fatalf("provider = %v", assigned.ProviderID)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"status": "completed"}, ""); rec.Code != http.StatusOK {
		t.Fatalf("complete = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"status": "open"}, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("reopen terminal = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{}, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty update = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, "/tasks/nope", map[string]any{"title": "x"}, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing = %d", rec.Code)
	}
}

func TestSkillsMaxPrice(t *testing.T) {
	f := newFixture(t, false)
	f.mem.SeedSkills(
		models.Skill{Name: "Python", Category: "Programming", AveragePrice: 350},
		models.Skill{Name: "Video Editing", Category: "Media", AveragePrice: 400},
		models.Skill{Name: "Data Science", Category: "Programming", AveragePrice: 650},
	)
	skills := decode[[]models.Skill](t, f.do(t, http.MethodGet, "/skills?maxPrice=400", nil, ""))
	if len(skills) != 2 {
		t.Fatalf("got %d skills", len(skills))
	}
	for _, s := range skills {
		if s.AveragePrice > 400 {
			t.Errorf("%s priced %v", s.Name, s.AveragePrice)
		}
	}
	if rec := f.do(t, http.MethodGet, "/skills?maxPrice=cheap", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad maxPrice = %d", rec.Code)
	}
	skills = decode[[]models.Skill](t, f.do(t, http.MethodGet, "/skills?query=PYTH&category=Programming", nil, ""))
	if len(skills) != 1 || skills[0].Name != "Python" {
		t.Errorf("query = %+v", skills)
	}
}

func TestProvidersSkillQuery(t *testing.T) {
	f := newFixture(t, false)
	f.user(t, models.User{Email: "a@x", UserType: models.UserTypeProvider, Skills: []string{"Python", "Go"}, HourlyRate: 400})
	f.user(t, models.User{Email: "b@x", UserType: models.UserTypeBoth, Skills: []string{"PYTHON scripting"}, HourlyRate: 900})
	f.user(t, models.User{Email: "c@x", UserType: models.UserTypeProvider, Skills: []string{"Design"}})
	f.user(t, models.User{Email: "d@x", UserType: models.UserTypeSeeker, Skills: []string{"python"}})

	providers := decode[[]models.User](t, f.do(t, http.MethodGet, "/providers?skillQuery=python", nil, ""))
	if len(providers) != 2 {
		t.Fatalf("got %d providers", len(providers))
	}
	for _, p := range providers {
		if !p.IsProvider() {
			t.Errorf("%s is not a provider", p.Email)
		}
	}
	providers = decode[[]models.User](t, f.do(t, http.MethodGet, "/providers?skillQuery=python&maxRate=500", nil, ""))
	if len(providers) != 1 || providers[0].Email != "a@x" {
		t.Fatalf("maxRate = %+v", providers)
	}
}

func TestUsersRoutes(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodPost, "/users", map[string]any{"name": "Ravi", "email": "ravi@example.com"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	u := decode[models.User](t, rec)
	if u.UserType != models.UserTypeSeeker || u.ProfileType != models.ProfileStudent {
		t.Fatalf("defaults = %s/%s", u.UserType, u.ProfileType)
	}

	if got := decode[models.User](t, f.do(t, http.MethodGet, "/users?id="+u.ID, nil, "")); got.Email != u.Email {
		t.Fatalf("get = %+v", got)
	}
	if rec := f.do(t, http.MethodGet, "/users?id=ghost", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing = %d", rec.Code)
	}
	if all := decode[[]models.User](t, f.do(t, http.MethodGet, "/users", nil, "")); len(all) != 1 {
		t.Fatalf("list = %d", len(all))
	}

	rec = f.do(t, http.MethodPut, "/users/"+u.ID, map[string]any{"user_type": "both", "skills": []string{"Go"}, "hourly_rate": 250}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %s", rec.Code, rec.Body)
	}
	if updated := decode[models.User](t, rec); updated.UserType != models.UserTypeBoth || updated.HourlyRate != 250 {
		t.Fatalf("updated = %+v", updated)
	}
	if rec := f.do(t, http.MethodPut, "/users/"+u.ID, map[string]any{"user_type": "admin"}, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad user_type = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/users", map[string]any{"name": "no email"}, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing email = %d", rec.Code)
	}
}

func TestDuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t, false)
	body := map[string]any{"name": "Asha", "email": "asha@example.com"}
	if rec := f.do(t, http.MethodPost, "/users", body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("first create = %d %s", rec.Code, rec.Body)
	}
	rec := f.do(t, http.MethodPost, "/users", body, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create = %d %s", rec.Code, rec.Body)
	}
	if msg := decode[map[string]string](t, rec)["error"]; msg != "user already exists" {
		t.Fatalf("error = %q", msg)
	}
}

func TestTransactionCreditsPayee(t *testing.T) {
	f := newFixture(t, false)
	payee := f.user(t, models.User{Email: "p@x", UserType: models.UserTypeProvider})

	rec := f.do(t, http.MethodPost, "/transactions", map[string]any{
		"task_id":  "task-1",
		"payer_id": "seeker-1",
		"payee_id": payee.ID,
		"amount":   300,
		"status":   "completed",

		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  payment.Sign("rzp_secret", "order_1", "pay_1"),
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	tx := decode[models.Transaction](t, rec)
	if tx.PlatformFee != 15 || tx.NetAmount != 285 || tx.Currency != "INR" {
		t.Fatalf("fee/net/currency = %v/%v/%v", tx.PlatformFee, tx.NetAmount, tx.Currency)
	}

	got, _ := f.mem.GetUser(context.Background(), payee.ID)
	if got.AvailableBalance != 285 || got.TotalEarnings != 285 || got.CompletedTasks != 1 {
		t.Fatalf("payee = %+v", got)
	}

	for _, id := range []string{"seeker-1", payee.ID} {
		txs := decode[[]models.Transaction](t, f.do(t, http.MethodGet, "/transactions?userId="+id, nil, ""))
		if len(txs) != 1 {
			t.Errorf("%s sees %d transactions", id, len(txs))
		}
	}
}

func TestTransactionValidation(t *testing.T) {
	f := newFixture(t, false)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"mismatched net", map[string]any{"amount": 300, "platform_fee": 15, "net_amount": 200, "payer_id": "a"}},
		{"fee above amount", map[string]any{"amount": 30, "platform_fee": 31, "payer_id": "a"}},
		{"zero amount", map[string]any{"amount": 0}},
		{"bad status", map[string]any{"amount": 10, "status": "settled"}},
		{"completed without payee", map[string]any{"amount": 10, "status": "completed"}},
		{"completed without signature", map[string]any{"amount": 10, "status": "completed", "payer_id": "a", "payee_id": "b"}},
		{"completed with forged signature", map[string]any{
			"amount": 10, "status": "completed", "payer_id": "a", "payee_id": "b",
			"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_1",
			"razorpay_signature": payment.Sign("guessed", "order_1", "pay_1"),
		}},
		{"payer is payee", map[string]any{"amount": 10, "payer_id": "a", "payee_id": "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := f.do(t, http.MethodPost, "/transactions", tt.body, ""); rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d %s", rec.Code, rec.Body)
			}
		})
	}

	rec := f.do(t, http.MethodPost, "/transactions", map[string]any{"amount": 300, "platform_fee": 15, "net_amount": 285, "payer_id": "a"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("matching fee = %d", rec.Code)
	}
	if tx := decode[models.Transaction](t, rec); tx.Status != models.TxPending {
		t.Fatalf("default status = %s", tx.Status)
	}
}

func TestSelfCreditRejected(t *testing.T) {
	f := newFixture(t, true)
	me := f.user(t, models.User{Email: "me@x", UserType: models.UserTypeProvider})

	rec := f.do(t, http.MethodPost, "/transactions", map[string]any{
		"payer_id": me.ID,
		"payee_id": me.ID,
		"amount":   100000,
		"status":   "completed",

		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  payment.Sign("rzp_secret", "order_1", "pay_1"),
	}, token(t, me.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self credit = %d %s", rec.Code, rec.Body)
	}
	rec = f.do(t, http.MethodPost, "/transactions", map[string]any{
		"payee_id": me.ID,
		"amount":   100000,
		"status":   "completed",
	}, token(t, "someone-else"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsigned credit = %d %s", rec.Code, rec.Body)
	}

	if got, _ := f.mem.GetUser(context.Background(), me.ID); got.AvailableBalance != 0 || got.TotalEarnings != 0 {
		t.Fatalf("balance after rejected credits = %+v", got)
	}
	rec = f.do(t, http.MethodPost, "/withdrawals", map[string]any{
		"user_id": me.ID, "amount": 90000, "method": "upi", "account_details": map[string]string{"upi_id": "me@upi"},
	}, token(t, me.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("withdraw unearned balance = %d %s", rec.Code, rec.Body)
	}
}

func TestCompletedTransactionWithoutSecret(t *testing.T) {
	mem := store.NewMemory()
	e := New(Deps{Config: config.Config{Env: config.EnvDev}, Logger: zerolog.Nop(), Store: mem, Orders: stubOrders{}})
	payee, _ := mem.CreateUser(context.Background(), models.User{Email: "p@x", UserType: models.UserTypeProvider})
	f := &fixture{e: e, mem: mem}

	rec := f.do(t, http.MethodPost, "/transactions", map[string]any{
		"payer_id": "seeker-1", "payee_id": payee.ID, "amount": 300, "status": "completed",
		"razorpay_order_id": "order_1", "razorpay_payment_id": "pay_1", "razorpay_signature": payment.Sign("", "order_1", "pay_1"),
	}, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
}

func TestWithdrawals(t *testing.T) {
	f := newFixture(t, false)
	provider := f.user(t, models.User{Email: "p@x", UserType: models.UserTypeProvider, AvailableBalance: 1000})
	seeker := f.user(t, models.User{Email: "s@x", UserType: models.UserTypeSeeker, AvailableBalance: 1000})
	upi := map[string]string{"upi_id": "p@upi"}

	rec := f.do(t, http.MethodPost, "/withdrawals", map[string]any{
		"user_id": provider.ID, "amount": 600, "method": "upi", "account_details": upi,
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("withdraw = %d %s", rec.Code, rec.Body)
	}
	w := decode[models.Withdrawal](t, rec)
	if w.ProcessingFee != 12 || w.NetAmount != 588 || w.Status != models.WithdrawalPending {
		t.Fatalf("withdrawal = %+v", w)
	}
	if got, _ := f.mem.GetUser(context.Background(), provider.ID); got.AvailableBalance != 400 {
		t.Fatalf("balance = %v", got.AvailableBalance)
	}

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"insufficient", map[string]any{"user_id": provider.ID, "amount": 500, "method": "upi", "account_details": upi}, http.StatusBadRequest},
		{"missing bank details", map[string]any{"user_id": provider.ID, "amount": 100, "method": "bank_transfer", "account_details": map[string]string{"account_number": "1"}}, http.StatusBadRequest},
		{"unknown method", map[string]any{"user_id": provider.ID, "amount": 100, "method": "cash"}, http.StatusBadRequest},
		{"below fee", map[string]any{"user_id": provider.ID, "amount": 10, "method": "upi", "account_details": upi}, http.StatusBadRequest},
		{"seeker", map[string]any{"user_id": seeker.ID, "amount": 100, "method": "upi", "account_details": upi}, http.StatusForbidden},
		{"unknown user", map[string]any{"user_id": "ghost", "amount": 100, "method": "upi", "account_details": upi}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := f.do(t, http.MethodPost, "/withdrawals", tt.body, ""); rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
		})
	}
}

func TestIdentityEnforcement(t *testing.T) {
	f := newFixture(t, true)
	body := map[string]any{"title": "x", "budget": 100, "seeker_id": "alice"}

	if rec := f.do(t, http.MethodPost, "/tasks", body, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/tasks", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("anonymous read = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/tasks", body, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/tasks", body, token(t, "mallory")); rec.Code != http.StatusForbidden {
		t.Fatalf("impersonation = %d", rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/tasks", map[string]any{"title": "x", "budget": 100}, token(t, "alice"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("own create = %d %s", rec.Code, rec.Body)
	}
	task := decode[models.Task](t, rec)
	if task.SeekerID != "alice" {
		t.Fatalf("seeker filled from token = %q", task.SeekerID)
	}

	if rec := f.do(t, http.MethodPut, "/tasks/"+task.ID, map[string]any{"title": "hijack"}, token(t, "mallory")); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign edit = %d", rec.Code)
	}
	rec = f.do(t, http.MethodPut, "/tasks/"+task.ID, map[string]any{"status": "assigned", "provider_id": "bob"}, token(t, "bob"))
	if rec.Code != http.StatusOK {
		t.Fatalf("provider accept = %d %s", rec.Code, rec.Body)
	}
	if rec := f.do(t, http.MethodGet, "/transactions?userId=bob", nil, token(t, "alice")); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign transactions = %d", rec.Code)
	}
}

func TestPaymentRoutes(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodPost, "/payment/create-order", map[string]any{"amount": 30000}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("create-order = %d %s", rec.Code, rec.Body)
	}
	if out := decode[map[string]any](t, rec); out["order_id"] != "order_test" || out["currency"] != "INR" {
		t.Fatalf("order = %v", out)
	}

	rec = f.do(t, http.MethodPost, "/payment/verify", map[string]any{
		"razorpay_order_id":   "order_test",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  payment.Sign("rzp_secret", "order_test", "pay_1"),
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify = %d %s", rec.Code, rec.Body)
	}
}

func TestProviderTaskEditsAreLimited(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, http.MethodPost, "/tasks", map[string]any{"title": "Logo", "budget": 300}, token(t, "alice"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	path := "/tasks/" + decode[models.Task](t, rec).ID

	rec = f.do(t, http.MethodPut, path, map[string]any{
		"status": "assigned", "provider_id": "bob", "budget": 999999, "title": "pwned",
	}, token(t, "bob"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("accept with edits = %d %s", rec.Code, rec.Body)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"provider_id": "bob"}, token(t, "bob")); rec.Code != http.StatusForbidden {
		t.Fatalf("accept without status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"status": "assigned", "provider_id": "bob"}, token(t, "bob")); rec.Code != http.StatusOK {
		t.Fatalf("accept = %d %s", rec.Code, rec.Body)
	}

	if rec := f.do(t, http.MethodPut, path, map[string]any{"budget": 999999}, token(t, "bob")); rec.Code != http.StatusForbidden {
		t.Fatalf("provider budget edit = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"provider_id": "alice"}, token(t, "bob")); rec.Code != http.StatusBadRequest {
		t.Fatalf("provider reassign = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"provider_id": "carol"}, token(t, "alice")); rec.Code != http.StatusBadRequest {
		t.Fatalf("seeker reassign = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"status": "in_progress"}, token(t, "bob")); rec.Code != http.StatusOK {
		t.Fatalf("provider start = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPut, path, map[string]any{"budget": 450}, token(t, "alice")); rec.Code != http.StatusOK {
		t.Fatalf("seeker budget edit = %d", rec.Code)
	}

	got := decode[models.Task](t, f.do(t, http.MethodGet, path, nil, ""))
	if got.Budget != 450 || got.Title != "Logo" || got.ProviderID == nil || *got.ProviderID != "bob" || got.Status != models.StatusInProgress {
		t.Fatalf("task = %+v", got)
	}
}

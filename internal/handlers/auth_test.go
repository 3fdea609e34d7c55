package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"equiptrack/internal/models"
	"equiptrack/internal/service"
)

func TestSignIn_SetsCookieAndReturnsSession(t *testing.T) {
	auth := &mockAuth{session: &service.Session{
		Token:   "jwt-token",
		Role:    models.RoleScheduler,
		Landing: "/api/v1/equipamentos/search",
	}}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := doJSON(t, r, http.MethodPost, "/auth/sign-in", "", `{"username":"agenda","password":"s3cret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if auth.lastUsername != "agenda" || auth.lastPassword != "s3cret" {
		t.Fatalf("credentials not forwarded: %q/%q", auth.lastUsername, auth.lastPassword)
	}

	var session service.Session
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session.Token != "jwt-token" || session.Role != models.RoleScheduler {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Landing != "/api/v1/equipamentos/search" {
		t.Fatalf("scheduler should land on search, got %q", session.Landing)
	}

	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, SessionCookie+"=jwt-token") {
		t.Fatalf("session cookie not set: %q", cookie)
	}
	if !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("session cookie must be HttpOnly: %q", cookie)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	auth := &mockAuth{signInErr: service.ErrInvalidCredentials}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := doJSON(t, r, http.MethodPost, "/auth/sign-in", "", `{"username":"ghost","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("Set-Cookie"); got != "" {
		t.Fatalf("no cookie may be set on failure: %q", got)
	}
}

func TestSignIn_MissingFields(t *testing.T) {
	auth := &mockAuth{}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := doJSON(t, r, http.MethodPost, "/auth/sign-in", "", `{"username":"alice"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
	if auth.lastUsername != "" {
		t.Fatalf("service must not be called on bad body")
	}
}

func TestSignOut_ClearsCookie(t *testing.T) {
	auth := &mockAuth{}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := doJSON(t, r, http.MethodPost, "/auth/sign-out", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, SessionCookie+"=") || !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected expired session cookie, got %q", cookie)
	}
	if auth.signOutCalls != 0 {
		t.Fatalf("anonymous sign-out must not be recorded")
	}
}

func TestSignOut_RecordsDeparture(t *testing.T) {
	auth := &mockAuth{ident: supportIdent()}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := doJSON(t, r, http.MethodPost, "/auth/sign-out", "session-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if auth.signOutCalls != 1 {
		t.Fatalf("expected one sign-out record, got %d", auth.signOutCalls)
	}
	if auth.signOutIdent.Username != "tech" {
		t.Fatalf("departure attributed to %q", auth.signOutIdent.Username)
	}
}

func TestSignOut_SucceedsWhenRecordingFails(t *testing.T) {
	auth := &mockAuth{ident: supportIdent(), signOutErr: errors.New("log sink down")}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := doJSON(t, r, http.MethodPost, "/auth/sign-out", "session-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("sign-out must clear the cookie regardless, got %d", w.Code)
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected expired session cookie, got %q", cookie)
	}
}

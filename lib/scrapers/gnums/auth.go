package gnums

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const (
	loginRetries      = 3
	loginRetryBackoff = time.Second * 2
)

// Login runs the Web Forms credential handshake and returns the portal
// cookies as a Session. Network errors and timeouts on the credential
// POST are retried with a linearly growing delay, a rejection from the
// portal is never retried.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	http, jar, err := c.loginHttp()
	if err != nil {
		return nil, externalError("init login client", err)
	}

	res, err := http.R().SetContext(ctx).Get(loginPage)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return nil, externalError("fetch login page", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page")
		return nil, externalError("parse login page", err)
	}

	state := ExtractFormState(doc)
	if state.Hidden["__VIEWSTATE"] == "" {
		span.SetStatus(codes.Error, "login page missing viewstate")
		return nil, externalError("parse login page", fmt.Errorf("missing __VIEWSTATE"))
	}

	payload := state.Payload("", "")
	payload["__LASTFOCUS"] = ""
	payload["rblRole"] = "Student"
	payload["txtUsername"] = username
	payload["txtPassword"] = password
	payload["btnLogin"] = "Login"

	var lastErr error
	for attempt := 1; attempt <= loginRetries; attempt++ {
		res, err := http.R().
			SetContext(ctx).
			SetFormData(payload).
			Post(loginPage)

		// the redirect policy surfaces the raw 302 as an error with
		// the response still attached
		if err != nil && (res == nil || res.RawResponse == nil) {
			lastErr = err
			if attempt < loginRetries {
				select {
				case <-time.After(loginRetryBackoff * time.Duration(attempt)):
				case <-ctx.Done():
					return nil, externalError("login", ctx.Err())
				}
				continue
			}
			span.SetStatus(codes.Error, "network failure")
			return nil, externalError(
				fmt.Sprintf("login after %d attempts", loginRetries), err)
		}

		switch res.StatusCode() {
		case 302:
			location := res.Header().Get("Location")
			if strings.Contains(location, "Default.aspx") ||
				strings.Contains(location, "StudentPanel/StudentDashboard.aspx") {
				return sessionFromJar(jar, c.BaseUrl), nil
			}
			span.SetStatus(codes.Error, "unexpected redirect")
			return nil, authError(fmt.Sprintf("Unexpected redirect: %s", location))
		case 200:
			span.SetStatus(codes.Error, ErrInvalidCredentials.Message)
			return nil, ErrInvalidCredentials
		default:
			span.SetStatus(codes.Error, "unexpected status")
			return nil, externalError("login",
				fmt.Errorf("unexpected status %d", res.StatusCode()))
		}
	}

	return nil, externalError("login", lastErr)
}

// CheckSession reports whether the session still reaches the student
// dashboard. It never fails, any error just reads as an invalid session.
func (c *Client) CheckSession(ctx context.Context, session Session) bool {
	ctx, span := tracer.Start(ctx, "client:CheckSession")
	defer span.End()

	res, err := c.sessionHttp(session).R().SetContext(ctx).Get(dashboardPage)
	if err != nil || res.StatusCode() != 200 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return false
	}
	return doc.Find("input#txtUsername").Length() == 0
}

// Logout replays the dashboard's logout event and confirms the portal
// dropped the session by the bounce back to the login page.
func (c *Client) Logout(ctx context.Context, session Session) error {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	http := c.sessionHttp(session)
	res, err := http.R().SetContext(ctx).Get(dashboardPage)
	if err != nil {
		return externalError("fetch dashboard", err)
	}
	if strings.Contains(finalUrl(res), "Login.aspx") {
		return ErrInvalidSession
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return externalError("parse dashboard", err)
	}

	state := ExtractFormState(doc)
	res, err = http.R().
		SetContext(ctx).
		SetFormData(state.Payload("ctl00$lbtnLogout", "")).
		Post(dashboardPage)
	if err != nil {
		return externalError("logout postback", err)
	}
	if strings.Contains(finalUrl(res), "Login.aspx") {
		return nil
	}
	span.SetStatus(codes.Error, "logout not confirmed")
	return externalError("logout", fmt.Errorf("could not verify redirection"))
}

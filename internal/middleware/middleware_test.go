package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/alsafar-partners/legal-web/internal/i18n"
	"github.com/alsafar-partners/legal-web/internal/uistate"
)

const testKey = "0123456789abcdef0123456789abcdef"

func chain(h http.Handler, bundle *i18n.Bundle) http.Handler {
	return HTMX(Session(SessionOptions{Key: testKey})(Locale(bundle)(UI(CSRF(h)))))
}

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.Default("")
	require.NoError(t, err)
	return b
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	var firstID string
	h := Session(SessionOptions{Key: testKey})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		if firstID == "" {
			firstID = s.ID
			s.RememberSubmitted("client@example.com")
		} else {
			require.Equal(t, firstID, s.ID)
			require.Equal(t, []string{"client@example.com"}, s.Submitted)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	c := cookieNamed(rr.Result().Cookies(), sessionCookieName)
	require.NotNil(t, c)
	require.True(t, c.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Nil(t, cookieNamed(rr.Result().Cookies(), sessionCookieName), "unchanged session is not rewritten")
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "eyJpZCI6ImhhY2sifQ.c2ln"})
	_, ok := readSessionCookie(req, []byte(testKey))
	require.False(t, ok)
}

func TestRememberSubmittedIsBounded(t *testing.T) {
	t.Parallel()

	s := &SessionData{}
	for i := 0; i < maxSubmitted+5; i++ {
		s.RememberSubmitted(strings.Repeat("a", i+1) + "@example.com")
	}
	require.Len(t, s.Submitted, maxSubmitted)
	require.Equal(t, strings.Repeat("a", maxSubmitted+5)+"@example.com", s.Submitted[maxSubmitted-1])
}

func TestCSRFAcceptsHeaderOrFormField(t *testing.T) {
	t.Parallel()

	bundle := testBundle(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := chain(ok, bundle)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	sess := cookieNamed(rr.Result().Cookies(), sessionCookieName)
	csrf := cookieNamed(rr.Result().Cookies(), csrfCookieName)
	require.NotNil(t, sess)
	require.NotNil(t, csrf)

	// missing token
	req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	req.AddCookie(sess)
	req.AddCookie(csrf)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	// header
	req = httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	req.AddCookie(sess)
	req.AddCookie(csrf)
	req.Header.Set("X-CSRF-Token", csrf.Value)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// form field
	form := url.Values{CSRFFormField: {csrf.Value}}
	req = httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sess)
	req.AddCookie(csrf)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCSRFErrorIsJSONForHTMX(t *testing.T) {
	t.Parallel()

	h := chain(http.NotFoundHandler(), testBundle(t))
	req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.JSONEq(t, `{"error":"invalid CSRF token"}`, rr.Body.String())
}

func TestLocalePrecedence(t *testing.T) {
	t.Parallel()

	bundle := testBundle(t)
	var got string
	h := Session(SessionOptions{Key: testKey})(Locale(bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r)
	})))

	cases := []struct {
		name   string
		target string
		cookie string
		accept string
		want   string
	}{
		{name: "default", target: "/", want: "en"},
		{name: "accept-language", target: "/", accept: "ar-SA,ar;q=0.9", want: "ar"},
		{name: "unsupported accept", target: "/", accept: "fr-FR", want: "en"},
		{name: "cookie beats header", target: "/", cookie: "ar", accept: "en", want: "ar"},
		{name: "query beats cookie", target: "/?hl=en", cookie: "ar", want: "en"},
		{name: "unknown query ignored", target: "/?hl=xx", accept: "ar", want: "ar"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: langCookie, Value: tc.cookie})
		}
		if tc.accept != "" {
			req.Header.Set("Accept-Language", tc.accept)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.Equal(t, tc.want, got, tc.name)
	}
}

func TestUIStateFollowsSession(t *testing.T) {
	t.Parallel()

	bundle := testBundle(t)
	step := 0
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := UIState(r)
		switch step {
		case 0:
			require.Equal(t, uistate.English, store.Snapshot().Lang)
			store.ToggleLanguage()
			store.SetSubscription(uistate.StatusSuccess, "footer.subscribeSuccess")
		case 1:
			st := store.Snapshot()
			require.Equal(t, uistate.Arabic, st.Lang)
			require.Equal(t, uistate.RTL, st.Dir)
			require.Equal(t, uistate.StatusSuccess, st.Subscription.Status)
			store.ResetSubscription()
		case 2:
			require.Equal(t, uistate.StatusIdle, store.Snapshot().Subscription.Status)
		}
		SaveUI(r)
		w.WriteHeader(http.StatusNoContent)
	}), bundle)

	var cookie *http.Cookie
	for step = 0; step < 3; step++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if c := cookieNamed(rr.Result().Cookies(), sessionCookieName); c != nil {
			cookie = c
		}
	}
}

func TestAssetsWithCacheETag(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"css/site.css": {Data: []byte("body{}")}}
	h := AssetsWithCache(fsys, "/assets")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "body{}", rr.Body.String())
	et := rr.Header().Get("ETag")
	require.NotEmpty(t, et)
	require.Contains(t, rr.Header().Get("Cache-Control"), "max-age=604800")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", et)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotModified, rr.Code)
}

func TestResponseRecorderRunsHookOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	rr := httptest.NewRecorder()
	rec := NewResponseRecorder(rr)
	rec.SetBeforeWrite(func(w http.ResponseWriter) { calls++; w.Header().Set("X-Hook", "1") })
	rec.WriteHeader(http.StatusAccepted)
	_, _ = rec.Write([]byte("ok"))
	require.Equal(t, 1, calls)
	require.Equal(t, http.StatusAccepted, rec.Status())
	require.Equal(t, "1", rr.Header().Get("X-Hook"))
}

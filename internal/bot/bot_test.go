package bot

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-gban/internal/service"
)

func restError(status, code int) error {
	return &discordgo.RESTError{
		Response:     &http.Response{StatusCode: status, Status: http.StatusText(status)},
		ResponseBody: []byte(fmt.Sprintf(`{"code": %d}`, code)),
		Message:      &discordgo.APIErrorMessage{Code: code, Message: "error"},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing permissions", restError(http.StatusForbidden, discordgo.ErrCodeMissingPermissions), service.ErrMissingPermissions},
		{"missing access", restError(http.StatusForbidden, discordgo.ErrCodeMissingAccess), service.ErrMissingPermissions},
		{"unknown user", restError(http.StatusNotFound, discordgo.ErrCodeUnknownUser), service.ErrUnknownUser},
		{"unknown ban", restError(http.StatusNotFound, discordgo.ErrCodeUnknownBan), service.ErrUnknownBan},
		{"unknown guild", restError(http.StatusNotFound, discordgo.ErrCodeUnknownGuild), service.ErrGuildUnavailable},
		{"bare forbidden", restError(http.StatusForbidden, 0), service.ErrMissingPermissions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.ErrorIs(t, got, tt.want)

			var restErr *discordgo.RESTError
			assert.ErrorAs(t, got, &restErr)
		})
	}
}

func TestClassifyLeavesOtherErrors(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, classify(plain))

	rateLimited := restError(http.StatusTooManyRequests, 0)
	assert.Same(t, rateLimited, classify(rateLimited))
}

func TestHasPermissions(t *testing.T) {
	assert.True(t, hasPermissions(sendPermissions, sendPermissions))
	assert.True(t, hasPermissions(discordgo.PermissionAdministrator, sendPermissions))
	assert.False(t, hasPermissions(discordgo.PermissionViewChannel|discordgo.PermissionSendMessages, sendPermissions))
}

func TestStatusHandler(t *testing.T) {
	h := statusHandler(func() string { return "bans: 3" })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bans: 3", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLibraryLogLevel(t *testing.T) {
	assert.Equal(t, discordgo.LogDebug, LibraryLogLevel("debug"))
	assert.Equal(t, discordgo.LogInformational, LibraryLogLevel("INFO"))
	assert.Equal(t, discordgo.LogError, LibraryLogLevel("ERROR"))
}

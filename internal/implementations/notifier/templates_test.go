package notifier

import (
	"testing"

	"streemi/internal/core/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPasswordReset(t *testing.T) {
	renderer := NewRenderer()

	rendered, err := renderer.Render(notification.PasswordReset, notification.Context{
		notification.ContextResetToken: "abc",
		notification.ContextResetURL:   "https://streemi.test/reset/abc?x=1&y=2",
		notification.ContextUserEmail:  "a@x.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Reset your Streemi password", rendered.Subject)
	assert.Contains(t, rendered.Text, "https://streemi.test/reset/abc?x=1&y=2")
	assert.Contains(t, rendered.Text, "a@x.com")
	assert.Contains(t, rendered.HTML, `href="https://streemi.test/reset/abc?x=1&amp;y=2"`)
}

func TestRenderEscapesHTML(t *testing.T) {
	rendered, err := NewRenderer().Render(notification.PasswordReset, notification.Context{
		notification.ContextResetToken: "abc",
		notification.ContextResetURL:   "https://streemi.test/reset/abc",
		notification.ContextUserEmail:  "<script>@x.com",
	})

	require.NoError(t, err)
	assert.NotContains(t, rendered.HTML, "<script>")
}

func TestRenderMissingContextKey(t *testing.T) {
	_, err := NewRenderer().Render(notification.PasswordReset, notification.Context{
		notification.ContextUserEmail: "a@x.com",
	})

	assert.Error(t, err)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewRenderer().Render(notification.TemplateID("unknown"), notification.Context{})

	assert.Error(t, err)
}

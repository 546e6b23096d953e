package sanitize

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasSensitiveInfo(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"long token", "token: abcdefghij1234567890", true},
		{"short token", "token: short", false},
		{"api key with dash and quote", `API-KEY = "ABCDEFGHIJKLMNOPQRSTUV"`, true},
		{"apikey without separator char", "apikey=abcdefghijklmnopqrstuvwx", true},
		{"secret below threshold", "secret: 1234567890123456789", false},
		{"password at eight chars", "password=hunter22", true},
		{"password below eight chars", "password=hunter2", false},
		{"internal host", "see https://build.corp.internal/jobs", true},
		{"local host", "curl http://printer.local", true},
		{"public host", "https://github.com/octocat/hello", false},
		{"plain diff", "+func main() {\n+\tfmt.Println(\"hi\")\n+}", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasSensitiveInfo(tt.text))
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Run("redacts api key value and keeps label", func(t *testing.T) {
		out := Sanitize("api_key: abcdefghijklmnopqrst")

		assert.Contains(t, out, "***REDACTED***")
		assert.NotContains(t, out, "abcdefghijklmnopqrst")
		assert.True(t, strings.HasPrefix(out, "api_key:"))
	})

	t.Run("preserves label casing", func(t *testing.T) {
		out := Sanitize(`const TOKEN = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"`)
		assert.Equal(t, `const TOKEN: "***REDACTED***"`, out)
	})

	t.Run("redacts password values the scanner reports", func(t *testing.T) {
		out := Sanitize("password: hunter2hunter2hunter2")
		assert.Equal(t, `password: "***REDACTED***"`, out)
	})

	t.Run("redacts private urls", func(t *testing.T) {
		out := Sanitize("fetch('http://api.staging.internal/v1/users') and https://nas.local")
		assert.Equal(t, "fetch('https://***REDACTED***/v1/users') and https://***REDACTED***", out)
	})

	t.Run("value glued to a private url is measured after the url marker", func(t *testing.T) {
		out := Sanitize("TOKEN=1234567890tokenhttp://x.internal")
		assert.Equal(t, `TOKEN: "***REDACTED***"://***REDACTED***`, out)
	})

	t.Run("leaves clean text untouched", func(t *testing.T) {
		in := "-old line\n+new line with token: short"
		assert.Equal(t, in, Sanitize(in))
	})
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"api_key: abcdefghijklmnopqrst",
		`secret="ABCDEFGHIJKLMNOPQRSTUVWXYZ0123"`,
		"password: password: AAAAAAAAAAAAAAAAAAAAAA",
		"token = passwordAAAAAAAAAAAAAAAAAAAAAA",
		"password=api_key: AAAAAAAAAAAAAAAAAAAAAAAA",
		"secret_token: 0123456789abcdefghijKLMN and https://x.y.internal",
		"http://a.local.internal/path https://foo.localhost",
		`api-key: '12345678901234567890' TOKEN:abcdefghijklmnopqrstu`,
		`password: "***REDACTED***"`,
		"_'_/TOKEN=1234567890tokenhttp://x.internal",
		"secret=abcdefghijklmnopqrshttp://build.local",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
		assert.False(t, HasSensitiveInfo(once), "sanitized %q still looks sensitive", once)
	}
}

// randomDiffText glues labels, separators, quotes, alphanumeric runs and private
// hosts together so runs and URLs end up adjacent in every combination.
func randomDiffText(r *rand.Rand) string {
	labels := []string{"api_key", "API-KEY", "apikey", "secret", "token", "TOKEN", "password", "Password"}
	separators := []string{":", "=", ": ", " = ", ""}
	quotes := []string{"", `"`, "'"}
	hosts := []string{"http://x.internal", "https://build.corp.internal", "http://printer.local", "https://a.b.local/path"}
	noise := []string{" ", "\n", "/", "_", "-", "+", "."}
	const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	var b strings.Builder
	for parts := 1 + r.IntN(6); parts > 0; parts-- {
		switch r.IntN(5) {
		case 0:
			b.WriteString(labels[r.IntN(len(labels))])
			b.WriteString(separators[r.IntN(len(separators))])
			b.WriteString(quotes[r.IntN(len(quotes))])
		case 1, 2:
			for n := 7 + r.IntN(15); n > 0; n-- {
				b.WriteByte(alnum[r.IntN(len(alnum))])
			}
		case 3:
			b.WriteString(hosts[r.IntN(len(hosts))])
		default:
			b.WriteString(noise[r.IntN(len(noise))])
			b.WriteString(quotes[r.IntN(len(quotes))])
		}
	}
	return b.String()
}

func TestSanitize_IdempotentRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))

	for i := 0; i < 50000; i++ {
		in := randomDiffText(r)
		once := Sanitize(in)
		if !assert.Equal(t, once, Sanitize(once), "input %q", in) {
			return
		}
		if !assert.False(t, HasSensitiveInfo(once), "input %q sanitized to %q", in, once) {
			return
		}
	}
}

func TestClean(t *testing.T) {
	out, redacted := Clean("token: short")
	assert.False(t, redacted)
	assert.Equal(t, "token: short", out)

	out, redacted = Clean("token: abcdefghij1234567890")
	assert.True(t, redacted)
	assert.Equal(t, `token: "***REDACTED***"`, out)
}

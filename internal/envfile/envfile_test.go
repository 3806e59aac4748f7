package envfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	text := "# header comment\n" +
		"\n" +
		"SERVER_A_HOST=10.0.0.1\r\n" +
		"  SERVER_A_USER = deploy  \n" +
		"stray text without equals\n" +
		"SERVER_A_NOTES=\"hello world\"\n" +
		"SERVER_A_ROLE='web'\n" +
		"URL=https://example.com/?a=b\n" +
		"=orphan\n"

	e := Parse(text)

	assert.Equal(t, []string{"SERVER_A_HOST", "SERVER_A_USER", "SERVER_A_NOTES", "SERVER_A_ROLE", "URL"}, e.Keys())

	host, ok := e.Get("SERVER_A_HOST")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", host)

	user, _ := e.Get("SERVER_A_USER")
	assert.Equal(t, "deploy", user)

	notes, _ := e.Get("SERVER_A_NOTES")
	assert.Equal(t, "hello world", notes)

	role, _ := e.Get("SERVER_A_ROLE")
	assert.Equal(t, "web", role)

	url, _ := e.Get("URL")
	assert.Equal(t, "https://example.com/?a=b", url)
}

func TestParseLastWriteWins(t *testing.T) {
	e := Parse("SERVER_A_HOST=1\nOTHER=x\nSERVER_A_HOST=2")

	host, _ := e.Get("SERVER_A_HOST")
	assert.Equal(t, "2", host)
	assert.Equal(t, []string{"SERVER_A_HOST", "OTHER"}, e.Keys())
	assert.Equal(t, 2, e.Len())
}

func TestParseStrictDropsInvalidKeys(t *testing.T) {
	text := "GOOD_KEY=1\n9BAD=2\nBAD-KEY=3\n_ok=4"

	lenient := Parse(text)
	assert.Equal(t, 4, lenient.Len())

	strict := ParseStrict(text)
	assert.Equal(t, []string{"GOOD_KEY", "_ok"}, strict.Keys())
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"mixed'`, `"mixed'`},
		{`"`, `"`},
		{`""`, ""},
		{`"a \"b\""`, `a \"b\"`},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Unquote(tt.input))
		})
	}
}

func TestQuoteSurvivesParse(t *testing.T) {
	values := []string{"plain", " padded ", `"quoted"`, `'single'`, "", "a=b", "# not a comment"}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			e := Parse("K=" + Quote(v))
			got, ok := e.Get("K")
			require.True(t, ok)
			assert.Equal(t, v, got)
		})
	}
}

func TestFromMap(t *testing.T) {
	e := FromMap(map[string]string{"B": "2", "A": "1"}, []string{"A", "B", "C"})
	assert.Equal(t, []string{"A", "B"}, e.Keys())
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, e.Map())
}

package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "jats markup and entities",
			in:   "<jats:title>Foo &amp; Bar</jats:title>",
			want: "Foo & Bar",
		},
		{
			name: "nested markup",
			in:   "<jats:p>Deep <jats:italic>learning</jats:italic> works</jats:p>",
			want: "Deep learning works",
		},
		{
			name: "whitespace collapsed",
			in:   "  too \n\t many   spaces  ",
			want: "too many spaces",
		},
		{
			name: "leading abstract label stripped",
			in:   "Abstract: We present a new method.",
			want: "We present a new method.",
		},
		{
			name: "leading summary label stripped",
			in:   "SUMMARY - Results are promising.",
			want: "Results are promising.",
		},
		{
			name: "abstract as a plain first word survives",
			in:   "Abstract algebra underpins the approach.",
			want: "Abstract algebra underpins the approach.",
		},
		{
			name: "decoded comparison operators survive",
			in:   "significant at p &lt; 0.05 but n &gt; 30",
			want: "significant at p < 0.05 but n > 30",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "markup only",
			in:   "<jats:p></jats:p>",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("<jats:title>Foo &amp; Bar</jats:title>")
	assert.Equal(t, once, Normalize(once))
}

package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/avelarde/chatbridge/internal/upstream"
)

func TestReplyForMapsErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", &upstream.Error{Kind: upstream.KindUnauthorized, Status: 401}, msgUnauthorized},
		{"forbidden", &upstream.Error{Kind: upstream.KindUnauthorized, Status: 403}, msgUnauthorized},
		{"not found", &upstream.Error{Kind: upstream.KindNotFound, Status: 404}, msgNotFound},
		{"unavailable", &upstream.Error{Kind: upstream.KindUnavailable, Status: 502}, msgUnavailable},
		{"malformed", &upstream.Error{Kind: upstream.KindMalformedResponse, Status: 200}, msgUnavailable},
		{"plain error", errors.New("boom"), msgUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReplyFor(tc.err); got != tc.want {
				t.Fatalf("ReplyFor() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStripDetails(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
		exact bool
	}{
		{
			name: "leading details block",
			in:   "<details><summary>Thinking</summary>reasoning dump</details>\nReal answer",
			want: "Real answer",
		},
		{
			name: "details with attributes and newlines",
			in:   "<details open>\nline1\nline2\n</details>\n\nAnswer",
			want: "Answer",
		},
		{
			name: "no details block",
			in:   "plain answer",
			want: "plain answer",
		},
		{
			name: "case insensitive",
			in:   "<DETAILS>x</DETAILS>Answer",
			want: "Answer",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := strings.TrimSpace(StripDetails(tc.in))
			if got != tc.want {
				t.Fatalf("StripDetails() = %q, want %q", got, tc.want)
			}
		})
	}
}

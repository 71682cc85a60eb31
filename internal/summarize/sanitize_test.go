package summarize

import "testing"

func TestSanitizeAIText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "دولت بودجه جدید را اعلام کرد",
			want: "دولت بودجه جدید را اعلام کرد",
		},
		{
			name: "parenthesized note removed",
			in:   "خلاصه خبر (Note: this is a machine summary) ادامه متن",
			want: "خلاصه خبر ادامه متن",
		},
		{
			name: "bracketed disclaimer removed",
			in:   "متن اصلی [Disclaimer: generated content] ادامه",
			want: "متن اصلی ادامه",
		},
		{
			name: "disclaimer line dropped",
			in:   "خلاصه مفید\nNote: I am an AI model\nادامه خلاصه",
			want: "خلاصه مفید ادامه خلاصه",
		},
		{
			name: "whitespace collapsed",
			in:   "  چند   فاصله\n\n اضافی  ",
			want: "چند فاصله اضافی",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeAIText(tt.in); got != tt.want {
				t.Errorf("SanitizeAIText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

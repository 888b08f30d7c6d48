package doi

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantEnc Encoding
	}{
		{
			name:    "doubled resolver domain",
			input:   "http://doi.org/doi.org/10.1/abc",
			want:    "http://doi.org/doi:10.1/abc",
			wantEnc: MalformedDoubled,
		},
		{
			name:    "doubled resolver domain with https",
			input:   "https://doi.org/https://doi.org/10.15468/dl.x7y",
			want:    "http://doi.org/doi:10.15468/dl.x7y",
			wantEnc: MalformedDoubled,
		},
		{
			name:    "already canonical",
			input:   "http://doi.org/doi:10.1000/xyz",
			want:    "http://doi.org/doi:10.1000/xyz",
			wantEnc: ResolverPrefixed,
		},
		{
			name:    "doi marker",
			input:   "doi:10.1000/xyz",
			want:    "http://doi.org/doi:10.1000/xyz",
			wantEnc: Prefixed,
		},
		{
			name:    "bare",
			input:   "10.1000/xyz",
			want:    "http://doi.org/doi:10.1000/xyz",
			wantEnc: Bare,
		},
		{
			name:    "surrounding whitespace",
			input:   "  10.1000/xyz\n",
			want:    "http://doi.org/doi:10.1000/xyz",
			wantEnc: Bare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if enc != tt.wantEnc {
				t.Errorf("Normalize(%q) encoding = %v, want %v", tt.input, enc, tt.wantEnc)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"10.1000/xyz",
		"doi:10.1000/xyz",
		"http://doi.org/doi.org/10.1/abc",
		"http://doi.org/doi:10.1/abc",
	}
	for _, in := range inputs {
		once, _ := Normalize(in)
		twice, enc := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		if enc != ResolverPrefixed {
			t.Errorf("second pass encoding for %q = %v, want %v", in, enc, ResolverPrefixed)
		}
	}
}

func TestDetect(t *testing.T) {
	if got := Detect("10.1/abc"); got != Bare {
		t.Errorf("Detect(bare) = %v", got)
	}
	if got := Detect("http://doi.org/doi.org/10.1/abc"); got != MalformedDoubled {
		t.Errorf("Detect(doubled) = %v", got)
	}
}

func TestLastSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.15468/dl.abc", "dl.abc"},
		{"https://doi.org/10.15468/39omei", "39omei"},
		{"nodelimiter", "nodelimiter"},
		{"10.1/", ""},
	}
	for _, tt := range tests {
		if got := LastSegment(tt.in); got != tt.want {
			t.Errorf("LastSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripAndClean(t *testing.T) {
	tests := []struct {
		in        string
		wantStrip string
		wantClean string
	}{
		{"10.1000/XYZ", "10.1000/XYZ", "10.1000/xyz"},
		{"https://doi.org/10.1000/XYZ", "10.1000/XYZ", "10.1000/xyz"},
		{"http://dx.doi.org/10.1000/xyz", "10.1000/xyz", "10.1000/xyz"},
		{"DOI: 10.1000/xyz", "10.1000/xyz", "10.1000/xyz"},
		{"http://doi.org/doi:10.1000/xyz", "10.1000/xyz", "10.1000/xyz"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := Strip(tt.in); got != tt.wantStrip {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.wantStrip)
		}
		if got := Clean(tt.in); got != tt.wantClean {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.wantClean)
		}
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"zotero extra", "DOI: 10.1071/WR19123\nPMID: 1234", "10.1071/WR19123"},
		{"trailing punctuation", "see (10.1000/abc.def).", "10.1000/abc.def"},
		{"none", "no identifier here", ""},
		{"short prefix", "10.12/ab", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Find(tt.text); got != tt.want {
				t.Errorf("Find(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

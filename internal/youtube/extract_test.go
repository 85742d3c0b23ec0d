package youtube

import "testing"

const testID = "dQw4w9WgXcQ"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{name: "bare video ID", input: testID, wantID: testID, wantOK: true},
		{name: "bare video ID with whitespace", input: "  " + testID + "\n", wantID: testID, wantOK: true},
		{name: "watch URL", input: "https://www.youtube.com/watch?v=" + testID, wantID: testID, wantOK: true},
		{name: "watch URL without scheme", input: "youtube.com/watch?v=" + testID, wantID: testID, wantOK: true},
		{name: "watch URL with v after other params", input: "https://www.youtube.com/watch?list=PL123&v=" + testID, wantID: testID, wantOK: true},
		{name: "watch URL with trailing params", input: "https://www.youtube.com/watch?v=" + testID + "&t=42s", wantID: testID, wantOK: true},
		{name: "short link", input: "https://youtu.be/" + testID, wantID: testID, wantOK: true},
		{name: "short link with query", input: "https://youtu.be/" + testID + "?si=abc", wantID: testID, wantOK: true},
		{name: "embed URL", input: "https://www.youtube.com/embed/" + testID, wantID: testID, wantOK: true},
		{name: "legacy /v/ URL", input: "https://www.youtube.com/v/" + testID, wantID: testID, wantOK: true},
		{name: "legacy /e/ URL", input: "https://www.youtube.com/e/" + testID, wantID: testID, wantOK: true},
		{name: "shorts URL", input: "https://www.youtube.com/shorts/" + testID, wantID: testID, wantOK: true},
		{name: "uppercase host", input: "HTTPS://WWW.YOUTUBE.COM/watch?v=" + testID, wantID: testID, wantOK: true},
		{name: "http and no www", input: "http://youtube.com/watch?v=" + testID, wantID: testID, wantOK: true},
		{name: "generic nested path", input: "https://www.youtube.com/user/channel/" + testID, wantID: testID, wantOK: true},

		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   \t "},
		{name: "non-YouTube URL", input: "https://vimeo.com/123456789"},
		{name: "ten character segment", input: "https://youtu.be/dQw4w9WgXc"},
		{name: "twelve character segment", input: "https://youtu.be/dQw4w9WgXcQ2"},
		{name: "bare twelve character token", input: "dQw4w9WgXcQ2"},
		{name: "youtube home page", input: "https://www.youtube.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractVideoID(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.wantID {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.wantID)
			}
		})
	}
}

func TestExtractVideoIDReturnsBareIDsUnchanged(t *testing.T) {
	ids := []string{"aaaaaaaaaaa", "AAAAAAAAAAA", "0123456789_", "-_-_-_-_-_-", testID}
	for _, id := range ids {
		got, ok := ExtractVideoID(id)
		if !ok || got != id {
			t.Errorf("ExtractVideoID(%q) = %q, %v; want input unchanged", id, got, ok)
		}
	}
}

func TestIsValidVideoID(t *testing.T) {
	if !IsValidVideoID(testID) {
		t.Errorf("IsValidVideoID(%q) = false, want true", testID)
	}
	for _, bad := range []string{"", "short", "dQw4w9WgXcQ2", "dQw4w9WgXc!"} {
		if IsValidVideoID(bad) {
			t.Errorf("IsValidVideoID(%q) = true, want false", bad)
		}
	}
}

func TestWatchURL(t *testing.T) {
	want := "https://www.youtube.com/watch?v=" + testID
	if got := WatchURL(testID); got != want {
		t.Errorf("WatchURL(%q) = %q, want %q", testID, got, want)
	}
}

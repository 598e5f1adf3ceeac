// file: dto/challenge_test.go
package dto

import "testing"

func TestLinkReqValidate(t *testing.T) {
	cases := []struct {
		name    string
		link    LinkReq
		wantErr bool
	}{
		{"https ok", LinkReq{Name: "instance", URL: "https://chal.example.com:9000/"}, false},
		{"http ok", LinkReq{Name: "attachment", URL: "http://files.example.com/a.zip"}, false},
		{"trims whitespace", LinkReq{Name: "  web  ", URL: "  https://example.com  "}, false},
		{"missing name", LinkReq{Name: "", URL: "https://example.com"}, true},
		{"missing url", LinkReq{Name: "web", URL: ""}, true},
		{"relative url", LinkReq{Name: "web", URL: "/local/path"}, true},
		{"wrong scheme", LinkReq{Name: "web", URL: "ftp://example.com/a"}, true},
		{"bare string", LinkReq{Name: "web", URL: "not a url"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.link.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %+v", tc.link)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateChallengeReqNormalize(t *testing.T) {
	yes := true
	r := CreateChallengeReq{TitleCamel: "legacy title ", IsPublishedCamel: &yes}
	r.Normalize()
	if r.Title != "legacy title" {
		t.Fatalf("Title = %q", r.Title)
	}
	if !r.IsPublished {
		t.Fatal("alias is_published not applied")
	}

	// the canonical field wins over the alias
	r = CreateChallengeReq{Title: "canonical", TitleCamel: "legacy"}
	r.Normalize()
	if r.Title != "canonical" {
		t.Fatalf("Title = %q", r.Title)
	}
}

func TestSubmitFlagReqNormalize(t *testing.T) {
	r := SubmitFlagReq{FlagCamel: "  nova{abc}  "}
	r.Normalize()
	if r.Flag != "nova{abc}" {
		t.Fatalf("Flag = %q", r.Flag)
	}
}

package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/extbuild/internal/core/domain"
)

func TestClassifyLanguage(t *testing.T) {
	tests := []struct {
		filename string
		want     domain.Language
		wantOK   bool
	}{
		{filename: "index.js", want: domain.LanguageJavaScript, wantOK: true},
		{filename: "index.ts", want: domain.LanguageTypeScript, wantOK: true},
		{filename: "/abs/path/hook.ts", want: domain.LanguageTypeScript, wantOK: true},
		{filename: "component.vue", wantOK: false},
		{filename: "README", wantOK: false},
		{filename: "archive.tar.gz", wantOK: false},
		{filename: "types.d.ts", want: domain.LanguageTypeScript, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := domain.ClassifyLanguage(tt.filename)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLanguage(t *testing.T) {
	for _, in := range []string{"ts", "typescript", " TypeScript "} {
		got, ok := domain.ParseLanguage(in)
		assert.True(t, ok, in)
		assert.Equal(t, domain.LanguageTypeScript, got, in)
	}

	_, ok := domain.ParseLanguage("coffee")
	assert.False(t, ok)
}

func TestProbeOrder(t *testing.T) {
	assert.Equal(t,
		[]domain.Language{domain.LanguageJavaScript, domain.LanguageTypeScript},
		domain.ProbeOrder(""),
	)
	assert.Equal(t,
		[]domain.Language{domain.LanguageTypeScript, domain.LanguageJavaScript},
		domain.ProbeOrder(domain.LanguageTypeScript),
	)
	assert.Equal(t,
		domain.Languages(),
		domain.ProbeOrder("coffee"),
	)
}

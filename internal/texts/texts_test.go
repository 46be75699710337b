package texts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range uz {
		assert.Contains(t, ru, key)
		assert.Contains(t, en, key)
	}
	assert.Len(t, ru, len(uz))
	assert.Len(t, en, len(uz))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, language.Russian, Resolve("ru", Uzbek))
	assert.Equal(t, language.English, Resolve("en-US", Uzbek))
	assert.Equal(t, Uzbek, Resolve("", Uzbek))
	assert.Equal(t, language.English, Resolve("", language.English))
	assert.Equal(t, Uzbek, Resolve("zz-not-a-tag-!!", Uzbek))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, Uzbek, ParseLocale("uz"))
	assert.Equal(t, language.Russian, ParseLocale("ru"))
	assert.Equal(t, Uzbek, ParseLocale(""))
}

func TestPrinterFormats(t *testing.T) {
	p := Printer("en", Uzbek)
	assert.Equal(t, "✅ Broadcast sent: 1/3 users.", p.Sprintf(BroadcastDone, 1, 3))

	p = Printer("", Uzbek)
	assert.Equal(t, "✅ Kino saqlandi! Kod: M1", p.Sprintf(Saved, "M1"))
}

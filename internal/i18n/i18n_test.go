package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, RU, Parse("ru"))
	assert.Equal(t, RU, Parse("RU-ru"))
	assert.Equal(t, EN, Parse("en"))
	assert.Equal(t, EN, Parse(""))
	assert.Equal(t, EN, Parse("de"))
}

func TestT_Substitution(t *testing.T) {
	assert.Equal(t, "Select at least 2 answers", T(EN, "validation.multiMin", "count", "2"))
	assert.Equal(t, "Необходимо выбрать не менее 2 ответов", T(RU, "validation.multiMin", "count", "2"))
}

func TestT_FallsBackToEnglishThenKey(t *testing.T) {
	assert.Equal(t, T(EN, "validation.email"), T(Locale("de"), "validation.email"))
	assert.Equal(t, "no.such.key", T(EN, "no.such.key"))
}

func TestT_EveryEnglishKeyHasRussian(t *testing.T) {
	for key := range tables[EN] {
		_, ok := tables[RU][key]
		assert.True(t, ok, "missing ru translation for %s", key)
	}
	for key := range tables[RU] {
		_, ok := tables[EN][key]
		assert.True(t, ok, "missing en translation for %s", key)
	}
}

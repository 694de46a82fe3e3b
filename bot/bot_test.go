package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInvocation(t *testing.T) {
	name, args, ok := ParseInvocation("!buywc basic arm", "!")
	assert.True(t, ok)
	assert.Equal(t, "buywc", name)
	assert.Equal(t, []string{"basic", "arm"}, args)

	name, args, ok = ParseInvocation("!PLANS", "!")
	assert.True(t, ok)
	assert.Equal(t, "plans", name)
	assert.Empty(t, args)

	// Extra whitespace between arguments is collapsed
	name, args, ok = ParseInvocation("!manage   stop   3", "!")
	assert.True(t, ok)
	assert.Equal(t, "manage", name)
	assert.Equal(t, []string{"stop", "3"}, args)

	_, _, ok = ParseInvocation("hello there", "!")
	assert.False(t, ok)

	_, _, ok = ParseInvocation("!", "!")
	assert.False(t, ok)

	_, _, ok = ParseInvocation("", "!")
	assert.False(t, ok)

	name, _, ok = ParseInvocation("?credits", "?")
	assert.True(t, ok)
	assert.Equal(t, "credits", name)
}

func TestParseUserMention(t *testing.T) {
	id, ok := ParseUserMention("<@123456789>")
	assert.True(t, ok)
	assert.Equal(t, "123456789", id)

	// Nickname mention form
	id, ok = ParseUserMention("<@!123456789>")
	assert.True(t, ok)
	assert.Equal(t, "123456789", id)

	_, ok = ParseUserMention("123456789")
	assert.False(t, ok)

	_, ok = ParseUserMention("<@abc>")
	assert.False(t, ok)

	_, ok = ParseUserMention("<@123> extra")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"adminc",
		"adminrc",
		"buyc",
		"buywc",
		"create",
		"credits",
		"delete-vps",
		"editplans",
		"giveplan",
		"manage",
		"myvps",
		"plans",
	}, CommandNames())

	for _, name := range []string{"create", "delete-vps", "adminc", "adminrc", "editplans", "giveplan"} {
		assert.True(t, Registry[name].AdminOnly, "%s must be admin-only", name)
	}

	for _, name := range []string{"plans", "credits", "buyc", "buywc", "myvps", "manage"} {
		assert.False(t, Registry[name].AdminOnly, "%s must not be admin-only", name)
	}
}

package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBaselines(t *testing.T) {
	user := Resolve("user", "")
	assert.Equal(t, true, user[ActionUpload])
	assert.Equal(t, true, user[ActionEdit])
	assert.Equal(t, DeleteSelf, user[ActionDelete])
	assert.Equal(t, true, user[ActionDownload])
	assert.Equal(t, false, user[ActionViewPrivate])
	assert.Equal(t, false, user[ActionAdminPanel])

	admin := Resolve("admin", "")
	assert.Equal(t, DeleteAll, admin[ActionDelete])
	assert.Equal(t, true, admin[ActionViewPrivate])
	assert.Equal(t, true, admin[ActionAdminPanel])
}

func TestResolveUnknownRole(t *testing.T) {
	perms := Resolve("superuser", "")
	assert.Equal(t, Resolve("user", ""), perms)
}

func TestResolveOverride(t *testing.T) {
	perms := Resolve("user", `{"upload": false, "delete": "all"}`)
	assert.Equal(t, false, perms[ActionUpload])
	assert.Equal(t, DeleteAll, perms[ActionDelete])
	// Untouched actions keep their baseline
	assert.Equal(t, true, perms[ActionEdit])
	assert.Equal(t, false, perms[ActionAdminPanel])
}

func TestResolveFailSoft(t *testing.T) {
	for _, doc := range []string{"", "{}", "not json", "[1,2]", `{"upload":`} {
		perms := Resolve("user", doc)
		assert.Equal(t, Resolve("user", ""), perms, "doc %q should leave the baseline untouched", doc)
	}
}

func TestResolveDoesNotMutateBaseline(t *testing.T) {
	first := Resolve("user", `{"upload": false}`)
	assert.Equal(t, false, first[ActionUpload])

	second := Resolve("user", "")
	assert.Equal(t, true, second[ActionUpload])
}

func TestAuthorizeBooleans(t *testing.T) {
	perms := Set{ActionUpload: true, ActionEdit: false}
	assert.True(t, Authorize(perms, ActionUpload, "u1", ""))
	assert.False(t, Authorize(perms, ActionEdit, "u1", ""))
}

func TestAuthorizeDeletePolicies(t *testing.T) {
	all := Set{ActionDelete: DeleteAll}
	assert.True(t, Authorize(all, ActionDelete, "u1", "u2"))
	assert.True(t, Authorize(all, ActionDelete, "u1", ""))

	none := Set{ActionDelete: DeleteNone}
	assert.False(t, Authorize(none, ActionDelete, "u1", "u1"))

	self := Set{ActionDelete: DeleteSelf}
	assert.True(t, Authorize(self, ActionDelete, "u1", "u1"))
	assert.False(t, Authorize(self, ActionDelete, "u1", "u2"))
	// Ownerless resources deny under the self policy
	assert.False(t, Authorize(self, ActionDelete, "u1", ""))
}

func TestAuthorizeDenyByDefault(t *testing.T) {
	// Absent action
	assert.False(t, Authorize(Set{}, ActionUpload, "u1", ""))
	// Unexpected value types
	assert.False(t, Authorize(Set{ActionDelete: "sometimes"}, ActionDelete, "u1", "u1"))
	assert.False(t, Authorize(Set{ActionUpload: "yes"}, ActionUpload, "u1", ""))
	assert.False(t, Authorize(Set{ActionUpload: 1.0}, ActionUpload, "u1", ""))
	// Policy strings only mean something for delete
	assert.False(t, Authorize(Set{ActionUpload: DeleteAll}, ActionUpload, "u1", ""))
}

func TestAuthorizeOverriddenActions(t *testing.T) {
	perms := Resolve("user", `{"view_private": true}`)
	assert.True(t, Authorize(perms, ActionViewPrivate, "u1", ""))

	perms = Resolve("admin", `{"delete": "none"}`)
	assert.False(t, Authorize(perms, ActionDelete, "u1", "u1"))
}

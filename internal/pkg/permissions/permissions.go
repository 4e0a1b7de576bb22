package permissions

import "encoding/json"

// Actions
const (
	ActionUpload      = "upload"
	ActionEdit        = "edit"
	ActionDelete      = "delete"
	ActionDownload    = "download"
	ActionViewPrivate = "view_private"
	ActionAdminPanel  = "admin_panel"
)

// Delete policies
const (
	DeleteAll  = "all"
	DeleteSelf = "self"
	DeleteNone = "none"
)

// Set is an effective permission set: action name to either a bool or,
// for "delete", one of the policy strings.
type Set map[string]interface{}

// userDefaults is the baseline for the "user" role (and any unknown role)
func userDefaults() Set {
	return Set{
		ActionUpload:      true,
		ActionEdit:        true,
		ActionDelete:      DeleteSelf,
		ActionDownload:    true,
		ActionViewPrivate: false,
		ActionAdminPanel:  false,
	}
}

// adminDefaults is the baseline for the "admin" role
func adminDefaults() Set {
	return Set{
		ActionUpload:      true,
		ActionEdit:        true,
		ActionDelete:      DeleteAll,
		ActionDownload:    true,
		ActionViewPrivate: true,
		ActionAdminPanel:  true,
	}
}

// Resolve computes the effective permission set for a role merged with an
// optional per-user override document (serialized JSON). The override is
// applied shallowly, field by field, on top of the role baseline; actions
// not named in the override keep their baseline values. An empty or
// unparsable override leaves the baseline untouched (fail-soft).
func Resolve(role, overrideDoc string) Set {
	base := userDefaults()
	if role == "admin" {
		base = adminDefaults()
	}

	if overrideDoc == "" || overrideDoc == "{}" {
		return base
	}

	var custom map[string]interface{}
	if err := json.Unmarshal([]byte(overrideDoc), &custom); err != nil {
		return base
	}

	for action, value := range custom {
		base[action] = value
	}

	return base
}

// Authorize decides whether the holder of perms may perform action on a
// resource owned by resourceOwnerID. Boolean actions answer directly. The
// delete action follows its policy value: "all" allows, "none" denies,
// "self" allows only when the requester owns the resource. Anything
// ambiguous (absent action, unexpected value) denies.
func Authorize(perms Set, action, requesterID, resourceOwnerID string) bool {
	value, ok := perms[action]
	if !ok {
		return false
	}

	if allowed, ok := value.(bool); ok {
		return allowed
	}

	if action == ActionDelete {
		switch value {
		case DeleteAll:
			return true
		case DeleteNone:
			return false
		case DeleteSelf:
			return resourceOwnerID != "" && resourceOwnerID == requesterID
		}
	}

	return false
}

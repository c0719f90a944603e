// Package decode turns JSON payloads into typed values.
//
// With default Options the payload goes straight through encoding/json. Any
// non-default key, date or data strategy switches to a two step decode: the
// payload is read into a generic tree (numbers kept as json.Number), keys are
// rewritten, and the tree is mapped onto the target with mapstructure hooks.
// The second path honours `json` tags and matches keys to field names case
// insensitively, so ConvertFromSnakeCase pairs "first_name" with a FirstName
// field that has no tag.
package decode

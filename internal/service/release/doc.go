// Package release resolves the latest Cursor release from the public
// metadata endpoint: download location plus version label, with an optional
// operator-supplied version override that affects the label only.
package release

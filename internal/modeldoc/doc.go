// Package modeldoc loads, edits and re-serializes COPASI model files.
//
// A Document keeps the source bytes next to an explicit element tree. Edits
// are recorded on the affected nodes only, so serialization reproduces every
// untouched byte of the original file (indentation, attribute quoting, entity
// escaping, comments) and changes nothing but the edited text or attribute.
//
// Elements are located with role Selectors (name plus identifying attributes
// plus ancestry) rather than by position, because COPASI reorders optional
// siblings between releases.
package modeldoc

// Package xmltree adapts [encoding/xml] into a small positioned node tree
// tailored to configuration compilers.
//
// Elements expose the lookups a recursive descent over a config document
// needs, each failing with a positioned [pkg.Error] of the matching kind:
//
//   - [Element.Attr]: required attribute ([pkg.ErrMissingAttribute])
//   - [Element.Child]: required single named child ([pkg.ErrMissingChild],
//     [pkg.ErrChildCardinality])
//   - [Element.OnlyChild]: exactly one child of any kind
//     ([pkg.ErrChildCardinality])
//   - [Element.ExpectTag]: tag check ([pkg.ErrTagMismatch])
//
// Iteration over children is in document order via [Element.Children] and
// [Element.ChildElements].
package xmltree

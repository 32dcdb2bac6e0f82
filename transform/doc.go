// Package transform implements document steps, position mapping and the
// Transform builder that accumulates steps against a document.
//
// Every step produces a StepMap describing how positions move. A Mapping is
// a sequence of step maps; positions computed before a step must be mapped
// through it before they are used against the new document.
package transform

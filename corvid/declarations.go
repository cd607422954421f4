// SPDX-License-Identifier: MIT
package corvid

import "github.com/corvidlang/corvid/ast"

// DeclKind tags an entry in the static-declaration list (spec §3
// "Parse result", §4.2 "Declaration forms").
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclFunc
	DeclTypeEnum
	DeclTypeObject
	DeclTypeAlias
	DeclImport
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclFunc:
		return "func"
	case DeclTypeEnum:
		return "type_enum"
	case DeclTypeObject:
		return "type_object"
	case DeclTypeAlias:
		return "type_alias"
	case DeclImport:
		return "import"
	default:
		return "unknown"
	}
}

// Declaration is one entry in the ordered top-level static-declaration
// list a downstream semantic pass consumes.
type Declaration struct {
	Kind DeclKind
	Node ast.ID
}

// recordDecl appends a declaration entry, preserving source order
// (spec §5, "static-declaration entries appear in source order").
func (p *Parser) recordDecl(kind DeclKind, node ast.ID) {
	p.decls = append(p.decls, Declaration{Kind: kind, Node: node})
}

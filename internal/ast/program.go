package ast

// Program owns an ordered sequence of top-level statements plus an
// optional leading string literal extracted as a module-level doc string
// (spec §3.5).
type Program struct {
	Arena      *Arena
	Doc        string
	Statements []Stmt
}

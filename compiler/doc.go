/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	analyze ->
Typed and Located Tree (ast + attributes) ->
	gen ->
Yul Object Text

Names, types and locations are resolved up front; gen makes every
lowering decision from the attributes alone and assumes they hold.

*/
package compiler

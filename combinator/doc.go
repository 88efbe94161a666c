// Package combinator is the execution core of a parser-combinator engine.
//
// Input is read through a [Cursor], which supports exact checkpointing with
// [Cursor.Save] and [Cursor.Rewind]. Parsers implement [Parser] and are run
// under a [Mode]: [Emit] builds output values, [Check] only validates and
// does not allocate on behalf of outputs. Both modes consume input the same
// way.
//
// Primitives:
//
//   - [End], [Empty], [Any]
//   - [Just]: a fixed sequence of tokens
//   - [OneOf], [NoneOf]: set membership
//   - [TakeUntil], [TakeUntilInto]: skip tokens until a terminator parses
//   - [Todo]: a placeholder that panics with [ErrUnimplemented]
//
// Combinators:
//
//   - [Choice]: the first alternative to succeed, each tried from the same
//     position
//   - [Group2] .. [Group6], [GroupAll]: sequencing into tuples or slices
//
// Failures are [*Error] values carrying the expected tokens, the token found
// and the [Span] of the failure. [Prioritize] keeps the failure that got
// furthest into the input.
//
// Example:
//
//	kw := combinator.Choice[rune, combinator.Str](
//		combinator.Just[rune](combinator.Str("if")),
//		combinator.Just[rune](combinator.Str("for")),
//	)
//	out, err := combinator.ParseText[combinator.Str](kw, "for")
//	// out == "for", err == nil
package combinator

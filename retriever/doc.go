// Package retriever turns a reported weakness into a remediation context
// string.
//
// Retrieval runs in two tiers over a vecstore.Store: a direct lookup in the
// weakness index, then a language-filtered full-text fallback built from the
// language, the weakness id and a prefix of the offending code. The chosen
// recipe is reduced to its title, description, checklist and fix idea by
// Extract. Finding nothing is a normal outcome and yields NoGuidance.
package retriever

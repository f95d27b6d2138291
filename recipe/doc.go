// Package recipe parses remediation recipes from a directory of UTF-8 text
// files.
//
// A recipe starts with a header line naming the weakness it addresses:
//
//	weakness: CWE-89
//	languages: java, python
//	tags: injection, sql
//	name: SQL Injection
//	Short Description: ...
//
// The languages and tags lines are optional and must directly follow the
// weakness line. Everything after the first line is kept verbatim as the
// document content. Files without a valid header are skipped with a warning.
package recipe

// Package testing provides shared test doubles, such as an in-memory FTP
// connection. Import it as testhelpers to avoid clashing with the standard
// testing package.
package testing

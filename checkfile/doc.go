/*
Package checkfile loads soft assertion checks from YAML, and applies them to a [softassert.Collector].

A check file looks like this:

	checks:
	  - check: equal
	    message: API port
	    actual_env: API_PORT
	    as: number
	    expected: 8080
	  - check: contains
	    message: Public URL uses TLS
	    actual_env: PUBLIC_URL
	    expected: "https://"
	  - check: not_null
	    message: Database DSN is set
	    actual_env: DATABASE_DSN

Scalars keep their YAML type, so a quoted "8080" is text and won't equal the number 8080.
Values read with actual_env are always text unless converted with "as".
A [File] should be created with [Load] or [LoadFile], since that's where checks are validated.
*/
package checkfile

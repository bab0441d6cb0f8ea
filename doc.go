/*
Package softassert provides soft assertions: checks that record a failure and keep going, instead of stopping at the first one.
All failures are reported together by [Collector.Report] as a single [*AggregateError].

A [Collector] is created per test session with [New], so sessions never share failures.

	c := softassert.New()
	defer c.ReportTo(t)

	c.Equal(softassert.Number(resp.StatusCode), softassert.Number(200), "status code")
	c.Contains(softassert.Text(resp.Body), softassert.Text("ok"), "response body")
	c.NotNull(softassert.Optional(resp.ETag), "etag header")

Values are one of a small, closed set of kinds (see [Value]), and equality is strict.
Number(5) and Text("5") are never equal.

Report always clears the failure buffer, whether or not the returned error is handled.
If Report is never called, the recorded failures are silently dropped.

The checkfile package and the softassert command apply the same checks to values declared in YAML files.
*/
package softassert

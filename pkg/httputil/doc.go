// Package httputil provides HTTP helpers shared by the document fetcher.
//
//   - [Policy]: retry with exponential backoff for transient failures
//   - [CheckStatus]: maps response codes to sentinel and retryable errors
//
// Only errors wrapped in [RetryableError] are retried. Network failures,
// 429 and 5xx responses are wrapped by convention:
//
//	err := httputil.DefaultPolicy().Do(ctx, func(int) error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp.StatusCode)
//	})
package httputil

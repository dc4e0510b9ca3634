// Package pagination handles the page/page_size pair that Docker Hub listing
// endpoints accept.
//
// Pages are 1-based. A zero value means "not supplied" and is replaced by the
// default; negative values and page sizes above MaxPageSize are rejected with
// an invalid_argument error.
//
// A typical adapter call looks like:
//
//	params, err := pagination.Normalize(pagination.Params{Page: page, PageSize: pageSize})
//	if err != nil {
//	    return nil, err
//	}
//
//	q := url.Values{}
//	q.Set("page", strconv.Itoa(params.Page))
//	q.Set("page_size", strconv.Itoa(params.PageSize))
//
//	// ... fetch, then clip what came back
//	results = pagination.Clip(results, params.PageSize)
//	total := pagination.ReconcileTotal(params, upstreamCount, len(results))
package pagination

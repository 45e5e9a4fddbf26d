// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the types Plan (a fully resolved outgoing HTTP
request) and Execution (the state of dispatching a Plan through the
handler chain).

A Session builds a Plan once per call, after merging its defaults with
the per-call options:

	p, err := request.NewPlanWithContext(ctx, "POST", "https://example.com/upload", body)

The dispatcher then creates an Execution and passes it to every handler
as events occur. Handlers read the current Request and Response from the
Execution and resolve non-2xx responses through Follow or Accept. You
will typically not allocate Execution instances yourself except in tests
of custom handlers.
*/
package request

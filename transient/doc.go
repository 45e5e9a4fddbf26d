// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport errors returned by a Session
// as transient or non-transient.
//
// Sessions never retry on their own. Callers that wrap requests in
// their own retry loop can use Categorize to decide which failures are
// worth another attempt, and to bucket error metrics.
package transient

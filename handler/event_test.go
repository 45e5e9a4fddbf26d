// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	assert.Len(t, eventNames, numEvents)
	assert.Len(t, Events(), numEvents)
	events := Events()
	assert.Equal(t, BeforeExecutionStart, events[BeforeExecutionStart])
	assert.Equal(t, BeforeConnect, events[BeforeConnect])
	assert.Equal(t, BeforeSend, events[BeforeSend])
	assert.Equal(t, AfterReceive, events[AfterReceive])
	assert.Equal(t, Intercept, events[Intercept])
	assert.Equal(t, Fallback, events[Fallback])
	assert.Equal(t, AfterExecutionEnd, events[AfterExecutionEnd])
}

func TestEvent_Name(t *testing.T) {
	assert.Equal(t, "BeforeExecutionStart", BeforeExecutionStart.Name())
	assert.Equal(t, "BeforeConnect", BeforeConnect.Name())
	assert.Equal(t, "BeforeSend", BeforeSend.Name())
	assert.Equal(t, "AfterReceive", AfterReceive.Name())
	assert.Equal(t, "Intercept", Intercept.Name())
	assert.Equal(t, "Fallback", Fallback.String())
	assert.Equal(t, "AfterExecutionEnd", AfterExecutionEnd.String())
}

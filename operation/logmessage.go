// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"fmt"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/internal/logger"
)

// commandLogMessage is the logger.Message an Executor emits around every
// round trip, independent of and in addition to the user-facing APM
// CommandMonitor hooks.
type commandLogMessage struct {
	name string
	addr address.Address
	verb string
	err  error
}

func (m commandLogMessage) Component() logger.Component { return logger.ComponentCommand }

func (m commandLogMessage) Text() string {
	return fmt.Sprintf("Command %s", m.verb)
}

func (m commandLogMessage) Fields() []interface{} {
	fields := []interface{}{"commandName", m.name, "serverHost", string(m.addr)}
	if m.err != nil {
		fields = append(fields, "failure", m.err.Error())
	}
	return fields
}

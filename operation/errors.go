// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"github.com/nimbusdb/nimbus-go-driver/bson"
	"github.com/nimbusdb/nimbus-go-driver/mongoerr"
	"github.com/nimbusdb/nimbus-go-driver/topology"
)

// checkOK translates a command reply carrying {ok: 0} into a
// *mongoerr.Error. A reply with no "code" field still carries its errmsg as
// a KindOperation error, since the server omits code for a handful of
// legacy failure paths.
func checkOK(reply *bson.Document) error {
	if topology.CommandOK(reply) {
		return nil
	}

	errmsg := ""
	if el, ok := reply.Lookup("errmsg"); ok {
		errmsg, _ = el.Value().StringValueOK()
	}

	if el, ok := reply.Lookup("code"); ok {
		code, _ := el.Value().Int32OK()
		return mongoerr.Coded(mongoerr.ErrorCode(code), errmsg)
	}

	return mongoerr.New(mongoerr.KindOperation, errmsg)
}

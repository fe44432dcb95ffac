// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package operation

import (
	"strconv"

	"github.com/nimbusdb/nimbus-go-driver/bson"
)

// DefaultMaxBatchCount bounds how many documents a single insert/update/
// delete command carries, mirroring the legacy wire protocol's
// maxWriteBatchSize default absent an isMaster override.
const DefaultMaxBatchCount = 1000

// DefaultMaxDocumentSize bounds the encoded size of a single batch,
// mirroring the legacy 16MiB BSON document ceiling.
const DefaultMaxDocumentSize = 16 * 1024 * 1024

// reservedCommandOverhead is subtracted from DefaultMaxDocumentSize to leave
// room for the command envelope (name, options) wrapped around a batch.
const reservedCommandOverhead = 16 * 1000

func arrayOfDocuments(key string, docs []*bson.Document) *bson.Element {
	arr := bson.NewDocument()
	for i, d := range docs {
		arr.Append(bson.EC.SubDocument(strconv.Itoa(i), d))
	}
	return bson.EC.Array(key, arr)
}

// splitDocuments groups docs into batches no larger than maxCount documents
// or maxSize encoded bytes, in original order.
func splitDocuments(docs []*bson.Document, maxCount, maxSize int) ([][]*bson.Document, error) {
	if maxCount <= 0 {
		maxCount = DefaultMaxBatchCount
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}
	if maxSize > reservedCommandOverhead {
		maxSize -= reservedCommandOverhead
	}

	var batches [][]*bson.Document
	startAt := 0
	for startAt < len(docs) {
		size := 0
		batch := make([]*bson.Document, 0, maxCount)
		for idx := startAt; idx < len(docs); idx++ {
			raw, err := bson.Marshal(docs[idx])
			if err != nil {
				return nil, err
			}
			if len(batch) > 0 && size+len(raw) > maxSize {
				break
			}
			size += len(raw)
			batch = append(batch, docs[idx])
			startAt++
			if len(batch) == maxCount {
				break
			}
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

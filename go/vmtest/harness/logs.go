// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package harness

import (
	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// rlpLog is the serialization of a log entry covered by the digest.
type rlpLog struct {
	Address tosca.Address
	Topics  []tosca.Hash
	Data    []byte
}

// LogsDigest computes the Keccak-256 hash of the RLP encoded list of the
// given logs, rendered as a 0x-prefixed hex string.
func LogsDigest(logs []tosca.Log) string {
	list := make([]rlpLog, 0, len(logs))
	for _, log := range logs {
		list = append(list, rlpLog{
			Address: log.Address,
			Topics:  log.Topics,
			Data:    log.Data,
		})
	}
	encoded, err := rlp.EncodeToBytes(list)
	if err != nil {
		panic(err)
	}
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(encoded)
	return hexutil.Encode(hasher.Sum(nil))
}

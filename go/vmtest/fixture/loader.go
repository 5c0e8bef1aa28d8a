// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fixture

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Fantom-foundation/tosca-vmtests/go/tosca"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LoadFile reads and parses the fixture file at the given path.
func LoadFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// ListDir lists the fixture files of the given directory in lexical order.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		res = append(res, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(res)
	return res, nil
}

// Parse decodes the content of a fixture file. The path is only recorded.
func Parse(path string, data []byte) (*Collection, error) {
	fixtures, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	res := &Collection{
		Path:     path,
		Checksum: sha256.Sum256(data),
	}
	for pair := fixtures.Oldest(); pair != nil; pair = pair.Next() {
		fixture, err := parseFixture(pair.Key, pair.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid fixture %s in %s: %w", pair.Key, path, err)
		}
		res.Fixtures = append(res.Fixtures, fixture)
	}
	return res, nil
}

type rawFixture struct {
	Env         *rawEnv           `json:"env"`
	Pre         json.RawMessage   `json:"pre"`
	Exec        json.RawMessage   `json:"exec"`
	Post        json.RawMessage   `json:"post"`
	Out         *string           `json:"out"`
	Logs        *string           `json:"logs"`
	Gas         *string           `json:"gas"`
	CallCreates []json.RawMessage `json:"callcreates"`
}

type rawEnv struct {
	Coinbase   *string `json:"currentCoinbase"`
	Difficulty *string `json:"currentDifficulty"`
	GasLimit   *string `json:"currentGasLimit"`
	Number     *string `json:"currentNumber"`
	Timestamp  *string `json:"currentTimestamp"`
}

var (
	accountKeys = []string{"balance", "code", "nonce", "storage"}
	execKeys    = []string{"address", "caller", "code", "data", "gas", "gasPrice", "origin", "value"}
)

func parseFixture(name string, data json.RawMessage) (*Fixture, error) {
	var raw rawFixture
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	res := &Fixture{
		Name:        name,
		CallCreates: len(raw.CallCreates),
	}

	if raw.Env == nil {
		return nil, fmt.Errorf("missing env")
	}
	var err error
	if res.Env, err = parseEnv(raw.Env); err != nil {
		return nil, fmt.Errorf("invalid env: %w", err)
	}

	if raw.Pre == nil {
		return nil, fmt.Errorf("missing pre")
	}
	if res.Pre, err = parseAccounts(raw.Pre); err != nil {
		return nil, fmt.Errorf("invalid pre: %w", err)
	}

	if raw.Exec == nil {
		return nil, fmt.Errorf("missing exec")
	}
	if res.Exec, err = parseExec(raw.Exec); err != nil {
		return nil, fmt.Errorf("invalid exec: %w", err)
	}

	if raw.Post == nil {
		return res, nil
	}
	post := &Post{}
	if post.Accounts, err = parseAccounts(raw.Post); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}
	if raw.Out != nil {
		if post.Out, err = parseBytes(*raw.Out); err != nil {
			return nil, fmt.Errorf("invalid out: %w", err)
		}
	}
	if raw.Logs != nil {
		logs, err := parseHash(*raw.Logs)
		if err != nil {
			return nil, fmt.Errorf("invalid logs: %w", err)
		}
		post.Logs = &logs
	}
	if raw.Gas != nil {
		gas, err := parseNumber(*raw.Gas)
		if err != nil {
			return nil, fmt.Errorf("invalid gas: %w", err)
		}
		post.Gas = &gas
	}
	res.Post = post
	return res, nil
}

func parseEnv(raw *rawEnv) (Env, error) {
	var res Env
	fields := []struct {
		name  string
		value *string
		trg   *uint256.Int
	}{
		{"currentCoinbase", raw.Coinbase, &res.Coinbase},
		{"currentDifficulty", raw.Difficulty, &res.Difficulty},
		{"currentGasLimit", raw.GasLimit, &res.GasLimit},
		{"currentNumber", raw.Number, &res.Number},
		{"currentTimestamp", raw.Timestamp, &res.Timestamp},
	}
	for _, field := range fields {
		if field.value == nil {
			return Env{}, fmt.Errorf("missing %s", field.name)
		}
		value, err := parseNumber(*field.value)
		if err != nil {
			return Env{}, fmt.Errorf("invalid %s: %w", field.name, err)
		}
		*field.trg = value
	}
	if res.Coinbase.BitLen() > 160 {
		return Env{}, fmt.Errorf("currentCoinbase is not an address: %v", res.Coinbase.Hex())
	}
	return res, nil
}

func parseAccounts(data json.RawMessage) ([]Account, error) {
	accounts, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	res := make([]Account, 0, accounts.Len())
	for pair := accounts.Oldest(); pair != nil; pair = pair.Next() {
		account, err := parseAccount(pair.Key, pair.Value)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", pair.Key, err)
		}
		res = append(res, account)
	}
	return res, nil
}

func parseAccount(address string, data json.RawMessage) (Account, error) {
	var res Account
	var err error
	if res.Address, err = parseAddress(address); err != nil {
		return Account{}, err
	}
	fields, err := decodeStrictObject(data, accountKeys)
	if err != nil {
		return Account{}, err
	}
	if res.Code, err = parseBytesField(fields, "code"); err != nil {
		return Account{}, err
	}
	if res.Nonce, err = parseNumberField(fields, "nonce"); err != nil {
		return Account{}, err
	}
	if res.Balance, err = parseNumberField(fields, "balance"); err != nil {
		return Account{}, err
	}
	entries, err := decodeObject(fields["storage"])
	if err != nil {
		return Account{}, fmt.Errorf("invalid storage: %w", err)
	}
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		key, err := parseNumber(pair.Key)
		if err != nil {
			return Account{}, fmt.Errorf("invalid storage key: %w", err)
		}
		var raw string
		if err := json.Unmarshal(pair.Value, &raw); err != nil {
			return Account{}, fmt.Errorf("invalid storage value of %s: %w", pair.Key, err)
		}
		value, err := parseNumber(raw)
		if err != nil {
			return Account{}, fmt.Errorf("invalid storage value of %s: %w", pair.Key, err)
		}
		res.Storage = append(res.Storage, StorageEntry{Key: key, Value: value})
	}
	return res, nil
}

func parseExec(data json.RawMessage) (Exec, error) {
	fields, err := decodeStrictObject(data, execKeys)
	if err != nil {
		return Exec{}, err
	}
	var res Exec
	addresses := []struct {
		name string
		trg  *tosca.Address
	}{
		{"address", &res.Address},
		{"caller", &res.Caller},
		{"origin", &res.Origin},
	}
	for _, field := range addresses {
		var raw string
		if err := json.Unmarshal(fields[field.name], &raw); err != nil {
			return Exec{}, fmt.Errorf("invalid %s: %w", field.name, err)
		}
		if *field.trg, err = parseAddress(raw); err != nil {
			return Exec{}, fmt.Errorf("invalid %s: %w", field.name, err)
		}
	}
	if res.Code, err = parseBytesField(fields, "code"); err != nil {
		return Exec{}, err
	}
	if res.Data, err = parseBytesField(fields, "data"); err != nil {
		return Exec{}, err
	}
	if res.Gas, err = parseNumberField(fields, "gas"); err != nil {
		return Exec{}, err
	}
	if res.GasPrice, err = parseNumberField(fields, "gasPrice"); err != nil {
		return Exec{}, err
	}
	if res.Value, err = parseNumberField(fields, "value"); err != nil {
		return Exec{}, err
	}
	return res, nil
}

// decodeObject decodes a JSON object preserving the order of its members.
func decodeObject(data []byte) (*orderedmap.OrderedMap[string, json.RawMessage], error) {
	res := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, res); err != nil {
		return nil, err
	}
	return res, nil
}

// decodeStrictObject decodes a JSON object that must have exactly the given
// members.
func decodeStrictObject(data []byte, keys []string) (map[string]json.RawMessage, error) {
	var res map[string]json.RawMessage
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	for _, key := range keys {
		if _, found := res[key]; !found {
			return nil, fmt.Errorf("missing field %s", key)
		}
	}
	if len(res) != len(keys) {
		for key := range res {
			if !slices.Contains(keys, key) {
				return nil, fmt.Errorf("unknown field %s", key)
			}
		}
	}
	return res, nil
}

func parseNumberField(fields map[string]json.RawMessage, name string) (uint256.Int, error) {
	var raw string
	if err := json.Unmarshal(fields[name], &raw); err != nil {
		return uint256.Int{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	res, err := parseNumber(raw)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return res, nil
}

func parseBytesField(fields map[string]json.RawMessage, name string) ([]byte, error) {
	var raw string
	if err := json.Unmarshal(fields[name], &raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	res, err := parseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return res, nil
}

// parseNumber parses a decimal or 0x-prefixed hexadecimal number of at most
// 256 bits. Leading zeros are accepted.
func parseNumber(s string) (uint256.Int, error) {
	value, ok := math.ParseBig256(s)
	if !ok {
		return uint256.Int{}, fmt.Errorf("invalid number %q", s)
	}
	res, _ := uint256.FromBig(value)
	return *res, nil
}

func parseAddress(s string) (tosca.Address, error) {
	value, err := parseNumber(s)
	if err != nil {
		return tosca.Address{}, err
	}
	if value.BitLen() > 160 {
		return tosca.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return tosca.Address(value.Bytes20()), nil
}

func parseBytes(s string) ([]byte, error) {
	return hexutil.Decode(s)
}

func parseHash(s string) (tosca.Hash, error) {
	data, err := parseBytes(s)
	if err != nil {
		return tosca.Hash{}, err
	}
	if len(data) != len(tosca.Hash{}) {
		return tosca.Hash{}, fmt.Errorf("invalid hash length %d", len(data))
	}
	return tosca.Hash(data), nil
}

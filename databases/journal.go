package databases

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/cryptography"
	"github.com/modulrcloud/sputnik-rpc/structures"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var ErrRecordNotFound = errors.New("invocation record not found")

// Journal is the append-only audit log of executor runs.
//
//	INVOCATION:<id>                         -> JSON record
//	INVOCATION_ORDER:<startedAt ms>:<id>    -> <id>
type Journal struct {
	db       *leveldb.DB
	identity *cryptography.Identity
}

func OpenJournal(path string, identity *cryptography.Identity) (*Journal, error) {

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	return &Journal{db: db, identity: identity}, nil

}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record signs rec with the gateway identity (when there is one) and stores it.
func (j *Journal) Record(rec *structures.InvocationRecord) error {

	if j == nil {
		return nil
	}

	if j.identity != nil {
		rec.Signer = j.identity.PubKey
		rec.Signature = j.identity.Sign(rec.SigningPayload())
	}

	serialized, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put([]byte(constants.DBKeyPrefixInvocation+rec.Id), serialized)
	batch.Put(orderKey(rec), []byte(rec.Id))

	return j.db.Write(batch, nil)

}

func (j *Journal) Get(id string) (*structures.InvocationRecord, error) {

	raw, err := j.db.Get([]byte(constants.DBKeyPrefixInvocation+id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec structures.InvocationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	return &rec, nil

}

// Latest returns up to limit records, newest first.
func (j *Journal) Latest(limit int) ([]structures.InvocationRecord, error) {

	records := make([]structures.InvocationRecord, 0, limit)

	iter := j.db.NewIterator(util.BytesPrefix([]byte(constants.DBKeyPrefixInvocationOrder)), nil)
	defer iter.Release()

	for ok := iter.Last(); ok && len(records) < limit; ok = iter.Prev() {

		rec, err := j.Get(string(iter.Value()))
		if err != nil {
			continue
		}

		records = append(records, *rec)

	}

	return records, iter.Error()

}

func orderKey(rec *structures.InvocationRecord) []byte {
	// Zero padded so lexicographic order is chronological.
	return []byte(fmt.Sprintf("%s%016d:%s", constants.DBKeyPrefixInvocationOrder, rec.StartedAt, rec.Id))
}

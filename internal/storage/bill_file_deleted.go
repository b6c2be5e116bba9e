package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"golang.org/x/exp/slices"
)

func (impl *billFileImpl) deletedRecordsFilePath() string {
	return filepath.Join(impl.dir, impl.base+"-"+deletedFileName)
}

func (impl *billFileImpl) saveDeletedRecordsToFile() (err error) {
	impl.mustDeletedRecordsLoaded()

	d, err := json.Marshal(impl.deletedRecords)
	if err != nil {
		return
	}

	filePath := impl.deletedRecordsFilePath()

	_ = pathutils.MustDirOfFileExists(filePath)

	err = os.WriteFile(filePath, d, 0600)

	return
}

func (impl *billFileImpl) mustDeletedRecordsLoaded() {
	if impl.deletedRecords == nil {
		_ = impl.loadDeletedRecords()
	}
}

func (impl *billFileImpl) loadDeletedRecords() (err error) {
	d, err := os.ReadFile(impl.deletedRecordsFilePath())
	if err != nil {
		impl.deletedRecords = make(map[string]model.DeletedBillRecord)

		return
	}

	var deletedRecords map[string]model.DeletedBillRecord

	err = json.Unmarshal(d, &deletedRecords)
	if err != nil {
		impl.deletedRecords = make(map[string]model.DeletedBillRecord)

		return
	}

	if len(deletedRecords) == 0 {
		deletedRecords = make(map[string]model.DeletedBillRecord)
	}

	impl.deletedRecords = deletedRecords

	return
}

func deletedRecordsM2S(recsM map[string]model.DeletedBillRecord) (recs []model.DeletedBillRecord) {
	for _, rec := range recsM {
		recs = append(recs, rec)
	}

	slices.SortFunc(recs, func(a, b model.DeletedBillRecord) int {
		if a.DeletedAt.Equal(b.DeletedAt) {
			return 0
		}

		if a.DeletedAt.Before(b.DeletedAt) {
			return 1
		}

		return -1
	})

	return
}

func (impl *billFileImpl) getDeletedRecord(billID string) (rec model.DeletedBillRecord, ok bool) {
	impl.deletedRecordsLock.Lock()
	defer impl.deletedRecordsLock.Unlock()

	impl.mustDeletedRecordsLoaded()

	rec, ok = impl.deletedRecords[billID]

	return
}

func (impl *billFileImpl) getDeletedRecords() (recs []model.DeletedBillRecord, err error) {
	impl.deletedRecordsLock.Lock()
	defer impl.deletedRecordsLock.Unlock()

	impl.mustDeletedRecordsLoaded()

	recs = deletedRecordsM2S(impl.deletedRecords)

	return
}

func (impl *billFileImpl) addDeletedRecord(rec model.DeletedBillRecord) (err error) {
	impl.deletedRecordsLock.Lock()
	defer impl.deletedRecordsLock.Unlock()

	impl.mustDeletedRecordsLoaded()

	impl.deletedRecords[rec.ID] = rec

	err = impl.saveDeletedRecordsToFile()

	return
}

func (impl *billFileImpl) deleteDeletedRecord(billID string) (err error) {
	impl.deletedRecordsLock.Lock()
	defer impl.deletedRecordsLock.Unlock()

	impl.mustDeletedRecordsLoaded()

	if _, ok := impl.deletedRecords[billID]; !ok {
		err = commerr.ErrNotFound

		return
	}

	delete(impl.deletedRecords, billID)

	err = impl.saveDeletedRecordsToFile()

	return
}

func (impl *billFileImpl) restoreDeletedRecord(billID string) (rec model.BillRecord, err error) {
	deletedRec, ok := impl.getDeletedRecord(billID)
	if !ok {
		err = commerr.ErrNotFound

		return
	}

	rec, err = impl.AddRecord(deletedRec.BillRecord)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("billID", billID)).
			Error("restore record failed")

		return
	}

	err = impl.deleteDeletedRecord(billID)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("billID", billID)).
			Error("delete record history failed")

		return
	}

	return
}

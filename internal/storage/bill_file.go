package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"golang.org/x/exp/slices"
)

const (
	deletedFileName = "deleted-bills"
)

// BillFile keeps saved bill records in per-day append-only files. Record ids
// carry the yyyymmdd prefix of their creation day, so lookups open exactly
// one file. Deleted records move to a recycle-bin file and can be restored.
type BillFile interface {
	AddRecord(rec model.BillRecord) (stored model.BillRecord, err error)
	GetRecord(billID string) (rec model.BillRecord, err error)
	ListRecords(billID string, count int, dirNew bool) (recs []model.BillRecord, hasMore bool, err error)

	DeleteRecord(billID string) (err error)
	GetDeletedRecord(billID string) (rec model.DeletedBillRecord, err error)
	GetDeletedRecords() ([]model.DeletedBillRecord, error)
	RemoveDeletedRecordHistory(billID string) error
	RestoreDeletedRecord(billID string) (rec model.BillRecord, err error)
}

func NewBillFile(dir, base string, logger l.Wrapper) BillFile {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &billFileImpl{
		dir:    dir,
		base:   base,
		logger: logger.WithFields(l.StringField(l.ClsKey, "billFileImpl")),
		files:  make(map[string]*streamFile),
	}
}

type streamFile struct {
	lock           sync.Mutex
	file           *os.File
	key            string
	filePath       string
	latestRecordAt time.Time
	lastAccessAt   time.Time
}

type billFileImpl struct {
	lock   sync.Mutex
	dir    string
	base   string
	logger l.Wrapper

	files map[string]*streamFile

	deletedRecordsLock sync.Mutex
	deletedRecords     map[string]model.DeletedBillRecord
}

func (impl *billFileImpl) getFileKey(at time.Time) string {
	return at.Format("20060102")
}

func (impl *billFileImpl) getFileName(date8 string) string {
	return impl.base + "-" + date8
}

func (impl *billFileImpl) getFilePath(key string) string {
	return filepath.Join(impl.dir, impl.getFileName(key))
}

func (impl *billFileImpl) getFileAt(at time.Time) (file *streamFile, err error) {
	return impl.getFileByKey(impl.getFileKey(at))
}

func (impl *billFileImpl) getFileByKey(key string) (file *streamFile, err error) {
	impl.lock.Lock()

	defer impl.lock.Unlock()

	file, ok := impl.files[key]
	if ok {
		file.lastAccessAt = time.Now()

		return
	}

	filePath := impl.getFilePath(key)

	_ = pathutils.MustDirOfFileExists(filePath)

	recs, _ := impl.readFileRecords(filePath)

	latestRecordAt := time.Now()

	_ = os.RemoveAll(filePath)

	rawFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return
	}

	if len(recs) > 0 {
		sortRecordsByCreatedAt(recs)

		latestRecordAt, err = impl.writeAllRecordsOnFile(rawFile, recs)
	}

	file = &streamFile{
		file:           rawFile,
		key:            key,
		filePath:       filePath,
		latestRecordAt: latestRecordAt,
		lastAccessAt:   time.Now(),
	}

	impl.files[key] = file

	return
}

func sortRecordsByCreatedAt(recs []model.BillRecord) {
	slices.SortFunc(recs, func(a, b model.BillRecord) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return 0
		}

		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}

		return 1
	})
}

func (impl *billFileImpl) AddRecord(rec model.BillRecord) (stored model.BillRecord, err error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s%d", rec.CreatedAt.Format("20060102"), snowflake.ID())
	}

	sf, err := impl.getFileAt(rec.CreatedAt)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.AnyField("at", rec.CreatedAt)).Error("get file failed")

		err = commerr.ErrInternal

		return
	}

	sf.lock.Lock()
	defer sf.lock.Unlock()

	if sf.latestRecordAt.Before(rec.CreatedAt) {
		var d []byte

		d, err = json.Marshal(rec)
		if err != nil {
			impl.logger.WithFields(l.ErrorField(err)).Error("marshal record failed")

			return
		}

		line := string(d) + "\n"

		_, err = sf.file.Write([]byte(line))
		if err != nil {
			impl.logger.WithFields(l.ErrorField(err)).Error("write file failed")

			return
		}

		sf.latestRecordAt = rec.CreatedAt

		stored = rec

		return
	}

	// a restored record lands before the tail of its day file
	err = impl.rebuildDateRecords(sf, func(recs []model.BillRecord) (newRecs []model.BillRecord, err error) {
		newRecs = append(recs, rec)

		return
	})
	if err != nil {
		return
	}

	stored = rec

	return
}

func (impl *billFileImpl) rebuildDateRecords(sf *streamFile,
	recsProc func(recs []model.BillRecord) (newRecs []model.BillRecord, err error)) (err error) {
	recs, err := impl.readFileRecords(sf.filePath)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("filePath", sf.filePath)).
			Error("read records failed")

		return
	}

	recs, err = recsProc(recs)
	if err != nil {
		return
	}

	sortRecordsByCreatedAt(recs)

	_ = sf.file.Close()

	bakFilePath := sf.filePath + ".bak"

	_ = os.RemoveAll(bakFilePath)

	_ = os.Rename(sf.filePath, bakFilePath)

	rawFile, err := os.OpenFile(sf.filePath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		delete(impl.files, sf.key)

		impl.logger.WithFields(l.ErrorField(err), l.StringField("file", sf.filePath)).
			Error("reopen file failed")

		return
	}

	sf.file = rawFile

	sf.latestRecordAt, err = impl.writeAllRecordsOnFile(sf.file, recs)
	if err != nil {
		delete(impl.files, sf.key)

		impl.logger.WithFields(l.ErrorField(err), l.StringField("file", sf.filePath)).
			Error("write all records failed")

		return
	}

	return
}

func (impl *billFileImpl) GetRecord(billID string) (rec model.BillRecord, err error) {
	if len(billID) <= 8 {
		err = commerr.ErrInvalidArgument

		return
	}

	key := billID[:8]

	sf, err := impl.getFileByKey(key)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.AnyField("key", key)).Error("get file failed")

		err = commerr.ErrInternal

		return
	}

	recs, err := impl.readFileRecords(sf.filePath)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("filePath", sf.filePath)).
			Error("read records failed")

		return
	}

	for _, billRec := range recs {
		if billRec.ID == billID {
			rec = billRec

			return
		}
	}

	err = commerr.ErrNotFound

	return
}

func (impl *billFileImpl) GetDeletedRecord(billID string) (rec model.DeletedBillRecord, err error) {
	rec, ok := impl.getDeletedRecord(billID)
	if !ok {
		err = commerr.ErrNotFound

		return
	}

	return
}

func (impl *billFileImpl) GetDeletedRecords() ([]model.DeletedBillRecord, error) {
	return impl.getDeletedRecords()
}

func (impl *billFileImpl) RemoveDeletedRecordHistory(billID string) error {
	return impl.deleteDeletedRecord(billID)
}

func (impl *billFileImpl) RestoreDeletedRecord(billID string) (rec model.BillRecord, err error) {
	return impl.restoreDeletedRecord(billID)
}

func (impl *billFileImpl) DeleteRecord(billID string) (err error) {
	if len(billID) <= 8 {
		err = commerr.ErrInvalidArgument

		return
	}

	key := billID[:8]

	sf, err := impl.getFileByKey(key)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.AnyField("key", key)).Error("get file failed")

		return commerr.ErrInternal
	}

	sf.lock.Lock()
	defer sf.lock.Unlock()

	var toDeletedRec *model.BillRecord

	err = impl.rebuildDateRecords(sf, func(recs []model.BillRecord) (newRecs []model.BillRecord, err error) {
		for idx := 0; idx < len(recs); idx++ {
			if recs[idx].ID == billID {
				r := recs[idx]
				toDeletedRec = &r

				recs = slices.Delete(recs, idx, idx+1)

				break
			}
		}

		if toDeletedRec == nil {
			err = commerr.ErrNotFound

			return
		}

		err = impl.addDeletedRecord(model.DeletedBillRecord{
			BillRecord: *toDeletedRec,
			DeletedAt:  time.Now(),
		})
		if err != nil {
			impl.logger.WithFields(l.ErrorField(err)).Error("record deleted bill failed")

			return
		}

		newRecs = recs

		return
	})

	return
}

func (impl *billFileImpl) writeAllRecordsOnFile(file *os.File, recs []model.BillRecord) (latestRecordAt time.Time,
	err error) {
	var d []byte

	for _, rec := range recs {
		d, err = json.Marshal(rec)
		if err != nil {
			return
		}

		line := string(d) + "\n"

		_, err = file.Write([]byte(line))
		if err != nil {
			return
		}

		latestRecordAt = rec.CreatedAt
	}

	return
}

func (impl *billFileImpl) readFileRecords(path string) (recs []model.BillRecord, err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}

	defer file.Close()

	reader := bufio.NewReader(file)

	for {
		var line []byte

		line, err = reader.ReadBytes('\n')
		if err == io.EOF {
			err = nil

			break
		}

		if err != nil {
			return
		}

		var rec model.BillRecord

		err = json.Unmarshal(line, &rec)
		if err != nil {
			return
		}

		recs = append(recs, rec)
	}

	return
}

func (impl *billFileImpl) ListRecords(billID string, count int, dirNew bool) (recs []model.BillRecord,
	hasMore bool, err error) {
	files, err := os.ReadDir(impl.dir)
	if err != nil {
		return
	}

	if count > 0 {
		count++
	}

	var inFileName string

	if len(billID) > 8 {
		inFileName = impl.getFileName(billID[:8])
	}

	recFiles := make([]string, 0, 10)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		if !strings.HasPrefix(file.Name(), impl.base+"-") {
			continue
		}

		if strings.HasSuffix(file.Name(), ".bak") {
			continue
		}

		if inFileName != "" {
			if dirNew {
				if file.Name() < inFileName {
					continue
				}
			} else {
				if file.Name() > inFileName {
					continue
				}
			}
		}

		recFiles = append(recFiles, file.Name())
	}

	slices.SortFunc(recFiles, func(a, b string) int {
		r := strings.Compare(a, b)
		if !dirNew {
			r = -r
		}

		return r
	})

	for x, file := range recFiles {
		if count > 0 && len(recs) >= count {
			break
		}

		var dayRecs []model.BillRecord

		dayRecs, err = impl.readFileRecords(filepath.Join(impl.dir, file))
		if err != nil {
			return
		}

		if x == 0 && billID != "" {
			for y, rec := range dayRecs {
				if rec.ID == billID {
					if dirNew {
						dayRecs = dayRecs[y+1:]
					} else {
						dayRecs = dayRecs[:y]
					}

					break
				}
			}
		}

		if dirNew {
			for y := 0; y < len(dayRecs); y++ {
				recs = append(recs, dayRecs[y])

				if count > 0 && len(recs) >= count {
					break
				}
			}
		} else {
			for y := len(dayRecs) - 1; y >= 0; y-- {
				recs = append(recs, dayRecs[y])

				if count > 0 && len(recs) >= count {
					break
				}
			}
		}
	}

	if count > 0 {
		if len(recs) >= count {
			recs = recs[:len(recs)-1]
			hasMore = true
		}
	}

	return
}

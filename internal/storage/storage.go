package storage

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
	"golang.org/x/exp/slices"
)

const (
	billCacheDuration = time.Hour
)

type ItemSuggestion struct {
	Name        string
	CostPerUnit float64
	UsedCount   int
}

// Storage persists bill records and derived suggestion data. Records are
// immutable once created: the only mutations are moving a record to the
// recycle bin and back.
type Storage interface {
	CreateBill(bill model.Bill) (rec model.BillRecord, err error)
	GetBill(billID string) (rec model.BillRecord, err error)
	ListRecentBills(count int) (recs []model.BillRecord, err error)
	ListBills(billID string, count int, dirNew bool) (recs []model.BillRecord, hasMore bool, err error)
	DeleteBill(billID string) error

	GetDeletedBills() ([]model.DeletedBillRecord, error)
	GetDeletedBill(billID string) (rec model.DeletedBillRecord, err error)
	RestoreDeletedBill(billID string) (rec model.BillRecord, err error)
	CleanDeletedBill(billID string) error

	GetItemSuggestions() (suggestions []ItemSuggestion, err error)
}

func NewStorage(dataRoot string, debug bool, logger l.Wrapper) Storage {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	_ = pathutils.MustDirExists(filepath.Join(dataRoot, "bills"))

	impl := &storageImpl{
		logger:   logger.WithFields(l.StringField(l.ClsKey, "storageImpl")),
		dataRoot: dataRoot,
		catalog: mwf.NewMemWithFile[*Catalog, mwf.Serial, mwf.Lock](
			NewCatalog(), &mwf.JSONSerial{
				MarshalIndent: debug,
			}, &sync.RWMutex{}, "catalog", rawfs.NewFSStorage(dataRoot)),
		billCache: cache.New(billCacheDuration, billCacheDuration),
		bills:     NewBillFile(filepath.Join(dataRoot, "bills"), "bill", logger),
	}

	impl.init()

	return impl
}

type storageImpl struct {
	logger    l.Wrapper
	catalog   *mwf.MemWithFile[*Catalog, mwf.Serial, mwf.Lock]
	billCache *cache.Cache

	dataRoot string
	bills    BillFile
}

func (impl *storageImpl) init() {
	_ = impl.catalog.Change(func(catalog *Catalog) (newCatalog *Catalog, err error) {
		newCatalog = catalog

		newCatalog.valid()

		return
	})
}

func (impl *storageImpl) CreateBill(bill model.Bill) (rec model.BillRecord, err error) {
	bill.Normalize()

	rec, err = impl.bills.AddRecord(model.BillRecord{
		Bill:      bill,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return
	}

	impl.learnBillItems(rec)
	impl.cacheBill(rec)

	return
}

func (impl *storageImpl) GetBill(billID string) (rec model.BillRecord, err error) {
	if i, ok := impl.billCache.Get(billID); ok {
		if d, ok := i.([]byte); ok {
			if json.Unmarshal(d, &rec) == nil {
				return
			}
		}
	}

	rec, err = impl.bills.GetRecord(billID)
	if err != nil {
		return
	}

	impl.cacheBill(rec)

	return
}

func (impl *storageImpl) ListRecentBills(count int) (recs []model.BillRecord, err error) {
	recs, _, err = impl.bills.ListRecords("", count, false)

	return
}

func (impl *storageImpl) ListBills(billID string, count int, dirNew bool) (recs []model.BillRecord,
	hasMore bool, err error) {
	return impl.bills.ListRecords(billID, count, dirNew)
}

func (impl *storageImpl) DeleteBill(billID string) error {
	impl.billCache.Delete(billID)

	return impl.bills.DeleteRecord(billID)
}

func (impl *storageImpl) GetDeletedBills() ([]model.DeletedBillRecord, error) {
	return impl.bills.GetDeletedRecords()
}

func (impl *storageImpl) GetDeletedBill(billID string) (rec model.DeletedBillRecord, err error) {
	return impl.bills.GetDeletedRecord(billID)
}

func (impl *storageImpl) RestoreDeletedBill(billID string) (rec model.BillRecord, err error) {
	rec, err = impl.bills.RestoreDeletedRecord(billID)
	if err != nil {
		return
	}

	impl.cacheBill(rec)

	return
}

func (impl *storageImpl) CleanDeletedBill(billID string) error {
	return impl.bills.RemoveDeletedRecordHistory(billID)
}

func (impl *storageImpl) GetItemSuggestions() (suggestions []ItemSuggestion, err error) {
	impl.catalog.Read(func(catalog *Catalog) {
		suggestions = make([]ItemSuggestion, 0, len(catalog.Items))

		for _, usage := range catalog.Items {
			suggestions = append(suggestions, ItemSuggestion{
				Name:        usage.Name,
				CostPerUnit: usage.CostPerUnit,
				UsedCount:   usage.UsedCount,
			})
		}
	})

	slices.SortFunc(suggestions, func(a, b ItemSuggestion) int {
		if a.UsedCount != b.UsedCount {
			return b.UsedCount - a.UsedCount
		}

		return strings.Compare(a.Name, b.Name)
	})

	return
}

func (impl *storageImpl) cacheBill(rec model.BillRecord) {
	d, err := json.Marshal(rec)
	if err != nil {
		return
	}

	impl.billCache.Set(rec.ID, d, cache.DefaultExpiration)
}

func (impl *storageImpl) learnBillItems(rec model.BillRecord) {
	_ = impl.catalog.Change(func(catalog *Catalog) (newCatalog *Catalog, err error) {
		newCatalog = catalog

		newCatalog.valid()

		for idx := range rec.Players {
			for _, line := range rec.Players[idx].Consumables {
				newCatalog.use(line.Name, line.CostPerUnit, line.Quantity, rec.CreatedAt)
			}
		}

		for _, line := range rec.SharedConsumables {
			newCatalog.use(line.Name, line.CostPerUnit, line.Quantity, rec.CreatedAt)
		}

		return
	})
}

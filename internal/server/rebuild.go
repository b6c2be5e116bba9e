package server

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/sgostarter/libcomponents/statistic/memdate"
	"github.com/sgostarter/libcomponents/statistic/memdate/ex"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
	"github.com/spf13/cast"
)

func readFileBillRecords(path string) (recs []model.BillRecord, err error) {
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

// RebuildStatistics recomputes the statistics file from the raw bill files.
// Run with -re-build after restoring data from a backup.
func RebuildStatistics() (err error) {
	_ = os.RemoveAll(filepath.Join(dataRoot, statFileName))

	stat := memdate.NewMemDateStatistics[string, ex.LifeCostTotalData, ex.LifeCostData,
		ex.LifeCostDataTrans, mwf.Serial, mwf.Lock](&mwf.JSONSerial{}, &mwf.NoLock{}, time.Local,
		statFileName, rawfs.NewFSStorage(dataRoot))

	files, err := os.ReadDir(filepath.Join(dataRoot, "bills"))
	if err != nil {
		return
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ps := strings.Split(file.Name(), "-")
		if len(ps) != 2 {
			continue
		}

		if len(ps[1]) != 8 || cast.ToUint64(ps[1]) == 0 {
			continue
		}

		recs, _ := readFileBillRecords(filepath.Join(dataRoot, "bills", file.Name()))

		for _, rec := range recs {
			stat.SetDayData(statBillsKey, rec.CreatedAt, billRecord2LifeCostData4Add(rec))
		}
	}

	return
}

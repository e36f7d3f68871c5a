package model

import (
	"fmt"

	"archive-hub/backend/common"
)

// InitStore opens the catalog store selected by STORE_TYPE and seeds the
// administrator account.
func InitStore() (Store, error) {
	var (
		store Store
		err   error
	)
	switch common.StoreType {
	case common.StoreTypeSQLite:
		common.SysLog("using SQLite store: " + common.SQLitePath)
		store, err = OpenSQLiteStore(common.SQLitePath)
	case common.StoreTypeMySQL:
		if common.SQLDSN == "" {
			return nil, fmt.Errorf("SQL_DSN is required when STORE_TYPE is %s", common.StoreTypeMySQL)
		}
		common.SysLog("using MySQL store")
		store, err = OpenMySQLStore(common.SQLDSN)
	default:
		common.SysLog("using in-memory store, data will be lost on restart")
		store = NewMemoryStore()
	}
	if err != nil {
		return nil, err
	}

	if err := CreateRootAccountIfNeed(store, common.AdminUsername, common.AdminPassword); err != nil {
		store.Close()
		return nil, err
	}
	common.SysLog("catalog store initialized")
	return store, nil
}

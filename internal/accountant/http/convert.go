package http

import (
	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
)

func capsToAPI(c domain.Capabilities) accountantapi.Capabilities {
	return accountantapi.Capabilities{
		Read:   c.CanRead,
		Edit:   c.CanEdit,
		Export: c.CanExport,
		BTW:    c.CanBTW,
	}
}

func capsFromAPI(c accountantapi.Capabilities) domain.Capabilities {
	return domain.Capabilities{
		CanRead:   c.Read,
		CanEdit:   c.Edit,
		CanExport: c.Export,
		CanBTW:    c.BTW,
	}
}

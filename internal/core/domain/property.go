package domain

import (
	"encoding/json"
	"time"
)

// Purpose - тип сделки по объявлению
type Purpose string

const (
	PurposeForSale Purpose = "for_sale"
	PurposeForRent Purpose = "for_rent"
)

// PropertyType - структурный тип объекта (дом, участок, офис и т.д.)
type PropertyType string

const (
	TypeAgriculturalLand PropertyType = "agricultural_land"
	TypeBuilding         PropertyType = "building"
	TypeCommercialPlot   PropertyType = "commercial_plot"
	TypeFactory          PropertyType = "factory"
	TypeFarmHouse        PropertyType = "farm_house"
	TypeFlat             PropertyType = "flat"
	TypeHouse            PropertyType = "house"
	TypeIndustrialLand   PropertyType = "industrial_land"
	TypeOffice           PropertyType = "office"
	TypeOther            PropertyType = "other"
	TypePenthouse        PropertyType = "penthouse"
	TypePlotFile         PropertyType = "plot_file"
	TypePlotForm         PropertyType = "plot_form"
	TypeResidentialPlot  PropertyType = "residential_plot"
	TypeRoom             PropertyType = "room"
	TypeShop             PropertyType = "shop"
	TypeLowerPortion     PropertyType = "lower_portion"
	TypeUpperPortion     PropertyType = "upper_portion"
	TypeWarehouse        PropertyType = "warehouse"
)

// AllPropertyTypes - полный список значений enum property_type в базе
var AllPropertyTypes = []PropertyType{
	TypeAgriculturalLand, TypeBuilding, TypeCommercialPlot, TypeFactory, TypeFarmHouse,
	TypeFlat, TypeHouse, TypeIndustrialLand, TypeOffice, TypeOther, TypePenthouse,
	TypePlotFile, TypePlotForm, TypeResidentialPlot, TypeRoom, TypeShop,
	TypeLowerPortion, TypeUpperPortion, TypeWarehouse,
}

// Feature - группа удобств из поля features
type Feature struct {
	Category string   `json:"category"`
	Features []string `json:"features"`
}

type Agency struct {
	ID         int64   `json:"id"`
	Title      *string `json:"title"`
	ProfileURL *string `json:"profile_url"`
}

type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PropertyCard - проекция объекта для списков и поиска
type PropertyCard struct {
	ID            int64      `json:"id"`
	Description   *string    `json:"description"`
	Header        *string    `json:"header"`
	Type          *string    `json:"type"`
	Price         *float64   `json:"price"`
	CoverPhotoURL *string    `json:"cover_photo_url"`
	Available     bool       `json:"available"`
	Area          *float64   `json:"area"`
	Added         *time.Time `json:"added"`
	Bedroom       *int       `json:"bedroom"`
	Bath          *int       `json:"bath"`
	Location      *string    `json:"location"`
	City          *string    `json:"city"`
}

// RankedProperty - строка материализованного представления лучших предложений
type RankedProperty struct {
	PropertyCard
	LocationID *int64 `json:"location_id"`
	Rank       int    `json:"rank"`
}

// Property - полная запись из таблицы properties вместе со связанными именами
type Property struct {
	PropertyCard
	Purpose               *string   `json:"purpose"`
	LocationID            *int64    `json:"location_id"`
	CityID                *int64    `json:"city_id"`
	InitialAmount         *string   `json:"initial_amount"`
	MonthlyInstallment    *string   `json:"monthly_installment"`
	RemainingInstallments *string   `json:"remaining_installments"`
	URL                   string    `json:"url"`
	Features              []Feature `json:"features"`
	IsPostedByAgency      bool      `json:"is_posted_by_agency"`
	Agency                *Agency   `json:"agency"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// PropertyDetails - объект, обогащенный данными внешних сервисов.
// Поля обогащения равны nil, если соответствующий запрос не удался.
type PropertyDetails struct {
	Property
	ExternalID       string          `json:"external_id"`
	PopularityTrends json.RawMessage `json:"popularity_trends"`
	AreaTrends       json.RawMessage `json:"area_trends"`
	Contact          json.RawMessage `json:"contact"`
}

// PaginatedResult - страница результатов и общее число совпадений
type PaginatedResult[T any] struct {
	Rows  []T   `json:"rows"`
	Count int64 `json:"count"`
}

// CityLocations - узел иерархии "город -> районы"
type CityLocations struct {
	City      City       `json:"city"`
	Locations []Location `json:"locations"`
}

// DictionaryItem - пара "системное имя / отображаемое имя" для фильтров на фронте
type DictionaryItem struct {
	SystemName  string `json:"system_name"`
	DisplayName string `json:"display_name"`
}

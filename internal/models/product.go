package models

// Product is a farmer's listing. FarmerName and FarmerAddress are copied from
// the owner when the product is listed and are not kept in sync afterwards.
type Product struct {
	ID            string  `bson:"_id" json:"id"`
	FarmerID      string  `bson:"farmer_id" json:"farmerId"`
	FarmerName    string  `bson:"farmer_name" json:"farmerName"`
	FarmerAddress string  `bson:"farmer_address" json:"farmerAddress"`
	Name          string  `bson:"name" json:"name"`
	Price         float64 `bson:"price" json:"price"`
	Unit          string  `bson:"unit" json:"unit"`
	Description   string  `bson:"description" json:"description"`
	Pincode       string  `bson:"pincode" json:"pincode"`
	Image         string  `bson:"image" json:"image"`
	Rating        float64 `bson:"rating" json:"rating"`
}

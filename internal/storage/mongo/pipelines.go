package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	hotelsCollection  = "hotels"
	reviewsCollection = "reviews"
)

// Mean price per location, cheapest first.
var averagePriceByLocationPipeline = mongo.Pipeline{
	{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$location"},
		{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
	}}},
	{{Key: "$sort", Value: bson.D{{Key: "averagePrice", Value: 1}}}},
}

// hotelWithReviewsPipeline joins reviews on hotelId and adds their mean
// rating. $avg over an empty array yields null.
func hotelWithReviewsPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: reviewsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "hotelId"},
			{Key: "as", Value: "reviews"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}},
		}}},
	}
}

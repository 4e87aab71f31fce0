package mysql

// seq preserves insertion order so ListHotels matches the document store's
// natural order. hotel_id carries no foreign key: referential integrity is
// checked by the review service before insert.
var schemaSQL = []string{`
CREATE TABLE IF NOT EXISTS hotels (
  id         CHAR(36)     NOT NULL,
  seq        BIGINT       NOT NULL AUTO_INCREMENT,
  name       VARCHAR(255) NOT NULL,
  location   VARCHAR(255) NOT NULL,
  price      DOUBLE       NOT NULL,
  rooms      DOUBLE       NOT NULL,
  created_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  updated_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
  PRIMARY KEY (id),
  UNIQUE KEY uq_hotels_seq (seq),
  KEY idx_hotels_location (location)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
CREATE TABLE IF NOT EXISTS reviews (
  id         CHAR(36)    NOT NULL,
  seq        BIGINT      NOT NULL AUTO_INCREMENT,
  hotel_id   CHAR(36)    NOT NULL,
  rating     DOUBLE      NOT NULL,
  comment    TEXT        NULL,
  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
  PRIMARY KEY (id),
  UNIQUE KEY uq_reviews_seq (seq),
  KEY idx_reviews_hotel (hotel_id, seq)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

const insertHotelSQL = `
INSERT INTO hotels (id, name, location, price, rooms)
VALUES (?, ?, ?, ?, ?)
`

const hotelColumns = `id, name, location, price, rooms, created_at, updated_at`

const getHotelSQL = `SELECT ` + hotelColumns + ` FROM hotels WHERE id = ?`

const listHotelsSQL = `SELECT ` + hotelColumns + ` FROM hotels ORDER BY seq`

const averagePriceByLocationSQL = `
SELECT location, AVG(price) AS average_price
FROM hotels
GROUP BY location
ORDER BY average_price ASC
`

const insertReviewSQL = `
INSERT INTO reviews (id, hotel_id, rating, comment)
VALUES (?, ?, ?, ?)
`

const reviewColumns = `id, hotel_id, rating, comment, created_at, updated_at`

const getReviewSQL = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`

const listReviewsByHotelSQL = `SELECT ` + reviewColumns + ` FROM reviews WHERE hotel_id = ? ORDER BY seq`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

package course

import "gorm.io/gorm"

// Geotag is the optional location a project photo was taken at
type Geotag struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Submission is a user's project submission for an assignment
type Submission struct {
	gorm.Model
	UserID       uint     `json:"user_id" gorm:"index;not null"`
	CourseID     uint     `json:"course_id" gorm:"index;not null"`
	AssignmentID uint     `json:"assignment_id" gorm:"index;not null"`
	Description  string   `json:"description" gorm:"type:text"`
	ImageURL     string   `json:"image_url"`
	Latitude     *float64 `json:"-"`
	Longitude    *float64 `json:"-"`
	Geotag       *Geotag  `json:"geotag,omitempty" gorm:"-"`
	IsDeleted    bool     `json:"-" gorm:"default:false"`
}

// BeforeSave flattens the geotag into its columns
func (s *Submission) BeforeSave(tx *gorm.DB) error {
	if s.Geotag == nil {
		s.Latitude, s.Longitude = nil, nil
		return nil
	}
	lat, lng := s.Geotag.Lat, s.Geotag.Lng
	s.Latitude, s.Longitude = &lat, &lng
	return nil
}

// AfterFind rebuilds the geotag from its columns
func (s *Submission) AfterFind(tx *gorm.DB) error {
	if s.Latitude != nil && s.Longitude != nil {
		s.Geotag = &Geotag{Lat: *s.Latitude, Lng: *s.Longitude}
	}
	return nil
}

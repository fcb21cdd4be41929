package models

import "errors"

// Cluster is a supply category code used as the namespace prefix of supply
// codes (e.g. OFC-0007).
type Cluster string

const (
	ClusterOffice     Cluster = "OFC"
	ClusterICT        Cluster = "ICT"
	ClusterJanitorial Cluster = "JAN"
	ClusterMedical    Cluster = "MED"
	ClusterElectrical Cluster = "ELC"
	ClusterOther      Cluster = "OTH"
)

var ClusterNames = map[Cluster]string{
	ClusterOffice:     "Office Supplies",
	ClusterICT:        "ICT Equipment",
	ClusterJanitorial: "Janitorial Supplies",
	ClusterMedical:    "Medical Supplies",
	ClusterElectrical: "Electrical Supplies",
	ClusterOther:      "Other Supplies",
}

func (c Cluster) IsValid() bool {
	_, ok := ClusterNames[c]
	return ok
}

func ParseCluster(s string) (Cluster, error) {
	c := Cluster(s)
	if !c.IsValid() {
		return "", errors.New("invalid cluster code")
	}
	return c, nil
}

type ReleaseStatus string

const (
	ReleaseStatusReleased ReleaseStatus = "released"
)

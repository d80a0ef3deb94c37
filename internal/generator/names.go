package generator

import (
	"fmt"

	"taskset-gen/internal/randstream"
)

var componentNames = []string{
	"Camera_Sensor", "Image_Processor", "Bitmap_Processor", "Lidar_Sensor",
	"Control_Unit", "GPS_Sensor", "Communication_Unit", "Proximity_Sensor",
	"Radar_Sensor", "Sonar_Sensor", "Laser_Sensor", "Infrared_Sensor",
	"Ultraviolet_Sensor", "Thermal_Sensor", "Pressure_Sensor", "Humidity_Sensor",
	"Temperature_Sensor", "Light_Sensor", "Sound_Sensor", "Vibration_Sensor",
	"Motion_Sensor", "Acceleration_Sensor", "Gyroscope_Sensor", "Magnetometer_Sensor",
	"Compass_Sensor", "Altimeter_Sensor", "Barometer_Sensor", "Hygrometer_Sensor",
	"Anemometer_Sensor", "Rain_Gauge_Sensor", "Snow_Gauge_Sensor", "Thermometer_Sensor",
}

func coreID(i int) string {
	return fmt.Sprintf("Core_%d", i+1)
}

func taskName(i int) string {
	return fmt.Sprintf("Task_%d", i)
}

// componentIDs shuffles the name pool and takes n names, padding with
// Component_<n> once the pool runs out.
func componentIDs(s *randstream.Stream, n int) []string {
	pool := make([]string, len(componentNames))
	copy(pool, componentNames)
	s.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	ids := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(pool) {
			ids[i] = pool[i]
		} else {
			ids[i] = fmt.Sprintf("Component_%d", i+1)
		}
	}
	return ids
}

package qserver

import "time"

func epoch(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// startDoc uses the queue item's uid as the run uid so runs map back to
// queue history entries.
func startDoc(item Item, now time.Time) Doc {
	return Doc{
		"uid":       item.UID,
		"time":      epoch(now),
		"plan_name": item.Name,
		"plan":      item.Plan,
		"versions":  map[string]any{},
	}
}

func descriptorDoc(uid, runUID string, now time.Time) Doc {
	return Doc{
		"uid":       uid,
		"run_start": runUID,
		"time":      epoch(now),
		"name":      "primary",
		"data_keys": map[string]any{
			"progress": map[string]any{"dtype": "number", "shape": []any{}, "source": "simulated"},
		},
		"object_keys":   map[string]any{},
		"configuration": map[string]any{},
		"hints":         map[string]any{},
	}
}

func resourceDoc(uid, runUID string) Doc {
	return Doc{
		"uid":             uid,
		"run_start":       runUID,
		"spec":            "SIM_RESOURCE",
		"root":            "/tmp",
		"resource_path":   "data.bin",
		"resource_kwargs": map[string]any{},
		"path_semantics":  "posix",
	}
}

func datumDoc(resourceUID string) Doc {
	return Doc{
		"datum_id":     resourceUID + "/1",
		"resource":     resourceUID,
		"datum_kwargs": map[string]any{},
	}
}

func eventPageDoc(uid, descriptor string, seq, progress int, now time.Time) Doc {
	t := epoch(now)
	return Doc{
		"uid":        []any{uid},
		"descriptor": descriptor,
		"time":       []any{t},
		"seq_num":    []any{seq},
		"data":       map[string]any{"progress": []any{progress}},
		"timestamps": map[string]any{"progress": []any{t}},
		"filled":     map[string]any{},
	}
}

func stopDoc(uid, runUID string, events int, now time.Time) Doc {
	return Doc{
		"uid":         uid,
		"run_start":   runUID,
		"time":        epoch(now),
		"exit_status": "success",
		"reason":      "",
		"num_events":  map[string]any{"primary": events},
	}
}

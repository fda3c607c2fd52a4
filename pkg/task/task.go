// Package task holds the task descriptors that travel inside task
// negotiation messages.
package task

import (
	"github.com/nm-morais/go-golem/pkg/errors"
	"github.com/nm-morais/go-golem/pkg/peer"
	"github.com/nm-morais/go-golem/pkg/serialization"
)

const taskCaller = "Task"

// ComputeTaskDef is the assignment sent to a provider in TaskToCompute.
type ComputeTaskDef struct {
	TaskID           string
	SubtaskID        string
	Deadline         float64
	SrcCode          string
	ExtraData        serialization.Value
	ShortDescription string
	ReturnAddress    string
	ReturnPort       uint16
	KeyID            string
	TaskOwner        *peer.NodeInfo
	WorkingDirectory string
	Performance      float64
	Environment      string
	DockerImages     []string
}

func (d *ComputeTaskDef) MarshalCanonical() (serialization.Value, error) {
	extra, err := serialization.Normalize(d.ExtraData)
	if err != nil {
		return nil, err
	}
	var owner serialization.Value
	if d.TaskOwner != nil {
		if owner, err = d.TaskOwner.MarshalCanonical(); err != nil {
			return nil, err
		}
	}
	images := make([]serialization.Value, len(d.DockerImages))
	for i, img := range d.DockerImages {
		images[i] = img
	}
	return serialization.Map{
		{Key: "task_id", Value: d.TaskID},
		{Key: "subtask_id", Value: d.SubtaskID},
		{Key: "deadline", Value: d.Deadline},
		{Key: "src_code", Value: d.SrcCode},
		{Key: "extra_data", Value: extra},
		{Key: "short_description", Value: d.ShortDescription},
		{Key: "return_address", Value: d.ReturnAddress},
		{Key: "return_port", Value: int64(d.ReturnPort)},
		{Key: "key_id", Value: d.KeyID},
		{Key: "task_owner", Value: owner},
		{Key: "working_directory", Value: d.WorkingDirectory},
		{Key: "performance", Value: d.Performance},
		{Key: "environment", Value: d.Environment},
		{Key: "docker_images", Value: images},
	}, nil
}

func (d *ComputeTaskDef) UnmarshalCanonical(v serialization.Value) error {
	m, ok := v.(serialization.Map)
	if !ok {
		return errors.NewDecodeError(taskCaller, "compute task def of kind %s", serialization.KindOf(v))
	}
	var err error
	if d.TaskID, err = m.GetString("task_id"); err != nil {
		return err
	}
	if d.SubtaskID, err = m.GetString("subtask_id"); err != nil {
		return err
	}
	if d.Deadline, err = m.GetFloat("deadline"); err != nil {
		return err
	}
	if d.SrcCode, err = m.GetString("src_code"); err != nil {
		return err
	}
	d.ExtraData, _ = m.Get("extra_data")
	if d.ShortDescription, err = m.GetString("short_description"); err != nil {
		return err
	}
	if d.ReturnAddress, err = m.GetString("return_address"); err != nil {
		return err
	}
	rp, err := m.GetInt("return_port")
	if err != nil {
		return err
	}
	if rp < 0 || rp > 65535 {
		return errors.NewDecodeError(taskCaller, "return_port %d out of range", rp)
	}
	d.ReturnPort = uint16(rp)
	if d.KeyID, err = m.GetString("key_id"); err != nil {
		return err
	}
	if ov, ok := m.Get("task_owner"); ok && ov != nil {
		d.TaskOwner = &peer.NodeInfo{}
		if err := d.TaskOwner.UnmarshalCanonical(ov); err != nil {
			return err
		}
	}
	if d.WorkingDirectory, err = m.GetString("working_directory"); err != nil {
		return err
	}
	if d.Performance, err = m.GetFloat("performance"); err != nil {
		return err
	}
	if d.Environment, err = m.GetString("environment"); err != nil {
		return err
	}
	d.DockerImages, err = m.GetStrings("docker_images")
	return err
}

// TaskHeader is one record of a TASKS list.
type TaskHeader struct {
	TaskID         string
	TaskOwnerKeyID string
	TaskOwner      *peer.NodeInfo
	Deadline       float64
	SubtaskTimeout float64
	Environment    string
	MinVersion     string
	MaxPrice       int64
}

func (h TaskHeader) ToMap() (serialization.Map, error) {
	var owner serialization.Value
	if h.TaskOwner != nil {
		ov, err := h.TaskOwner.MarshalCanonical()
		if err != nil {
			return nil, err
		}
		owner = ov
	}
	return serialization.Map{
		{Key: "task_id", Value: h.TaskID},
		{Key: "task_owner_key_id", Value: h.TaskOwnerKeyID},
		{Key: "task_owner", Value: owner},
		{Key: "deadline", Value: h.Deadline},
		{Key: "subtask_timeout", Value: h.SubtaskTimeout},
		{Key: "environment", Value: h.Environment},
		{Key: "min_version", Value: h.MinVersion},
		{Key: "max_price", Value: h.MaxPrice},
	}, nil
}

func TaskHeaderFromMap(m serialization.Map) (TaskHeader, error) {
	var (
		h   TaskHeader
		err error
	)
	if h.TaskID, err = m.GetString("task_id"); err != nil {
		return TaskHeader{}, err
	}
	if h.TaskOwnerKeyID, err = m.GetString("task_owner_key_id"); err != nil {
		return TaskHeader{}, err
	}
	if ov, ok := m.Get("task_owner"); ok && ov != nil {
		h.TaskOwner = &peer.NodeInfo{}
		if err := h.TaskOwner.UnmarshalCanonical(ov); err != nil {
			return TaskHeader{}, err
		}
	}
	if h.Deadline, err = m.GetFloat("deadline"); err != nil {
		return TaskHeader{}, err
	}
	if h.SubtaskTimeout, err = m.GetFloat("subtask_timeout"); err != nil {
		return TaskHeader{}, err
	}
	if h.Environment, err = m.GetString("environment"); err != nil {
		return TaskHeader{}, err
	}
	if h.MinVersion, err = m.GetString("min_version"); err != nil {
		return TaskHeader{}, err
	}
	h.MaxPrice, err = m.GetInt("max_price")
	return h, err
}

func HeadersToMaps(headers []TaskHeader) ([]serialization.Map, error) {
	out := make([]serialization.Map, 0, len(headers))
	for _, h := range headers {
		m, err := h.ToMap()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func HeadersFromMaps(records []serialization.Map) ([]TaskHeader, error) {
	out := make([]TaskHeader, 0, len(records))
	for i, r := range records {
		h, err := TaskHeaderFromMap(r)
		if err != nil {
			return nil, errors.WrapDecodeError(taskCaller, err, "task record %d", i)
		}
		out = append(out, h)
	}
	return out, nil
}

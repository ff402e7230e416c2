// Copyright 2018-present Reso-nance Numerique.
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package installer

import "github.com/Ondulab/CISYNTH-CIS-Bootloader/system"

// Regions bundles the two on-chip image slots and the paths their
// backups and the package file live at. This is the config an
// orchestrator needs beyond the package contents themselves.
type Regions struct {
	A system.Region
	B system.Region

	BackupAPath      string
	BackupBPath      string
	ExternalDataPath string
}
